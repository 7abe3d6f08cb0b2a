package services

import (
	"testing"

	auth "optometria-core/internal/shared/middleware/auth"
)

func punteroA(v int64) *int64 { return &v }

func TestPuedeAcceder(t *testing.T) {
	casos := []struct {
		nombre   string
		ident    auth.Identidad
		alumno   int64
		profesor int64
		espera   bool
	}{
		{
			nombre: "admin accede a cualquier historia",
			ident:  auth.Identidad{UsuarioID: 1, Rol: auth.RolAdmin},
			alumno: 10, profesor: 20, espera: true,
		},
		{
			nombre: "alumno titular accede",
			ident:  auth.Identidad{UsuarioID: 2, Rol: auth.RolAlumno, AlumnoInfoID: punteroA(10)},
			alumno: 10, profesor: 20, espera: true,
		},
		{
			nombre: "alumno ajeno denegado",
			ident:  auth.Identidad{UsuarioID: 2, Rol: auth.RolAlumno, AlumnoInfoID: punteroA(11)},
			alumno: 10, profesor: 20, espera: false,
		},
		{
			nombre: "alumno sin ficha denegado",
			ident:  auth.Identidad{UsuarioID: 2, Rol: auth.RolAlumno},
			alumno: 10, profesor: 20, espera: false,
		},
		{
			nombre: "profesor de la asignación accede",
			ident:  auth.Identidad{UsuarioID: 3, Rol: auth.RolProfesor, ProfesorInfoID: punteroA(20)},
			alumno: 10, profesor: 20, espera: true,
		},
		{
			nombre: "profesor de otra asignación denegado",
			ident:  auth.Identidad{UsuarioID: 3, Rol: auth.RolProfesor, ProfesorInfoID: punteroA(21)},
			alumno: 10, profesor: 20, espera: false,
		},
		{
			nombre: "rol desconocido denegado",
			ident:  auth.Identidad{UsuarioID: 4, Rol: "invitado"},
			alumno: 10, profesor: 20, espera: false,
		},
	}

	for _, caso := range casos {
		t.Run(caso.nombre, func(t *testing.T) {
			if got := PuedeAcceder(caso.ident, caso.alumno, caso.profesor); got != caso.espera {
				t.Errorf("PuedeAcceder = %v, esperaba %v", got, caso.espera)
			}
		})
	}
}
