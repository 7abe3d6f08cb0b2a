package auth

// Roles reconocidos por el sistema
const (
	RolAdmin    = "admin"
	RolProfesor = "profesor"
	RolAlumno   = "alumno"
)

// Identidad es la identidad validada de la petición, inyectada en el
// contexto Gin por el middleware de sesión. El núcleo la consume tal cual.
type Identidad struct {
	UsuarioID      int64  `json:"usuarioID"`
	Rol            string `json:"rol"`
	AlumnoInfoID   *int64 `json:"alumnoInfoID,omitempty"`
	ProfesorInfoID *int64 `json:"profesorInfoID,omitempty"`
}

// EsAdmin indica si la identidad tiene rol administrador
func (i Identidad) EsAdmin() bool {
	return i.Rol == RolAdmin
}

// ContextoIdentidad es la clave bajo la cual viaja la identidad en Gin
const ContextoIdentidad = "identidad"
