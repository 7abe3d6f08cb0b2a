package services

import (
	"context"

	"github.com/jackc/pgx/v5"

	"optometria-core/internal/infrastructure/database/postgres"
	"optometria-core/internal/modules/historias/queries"
	auth "optometria-core/internal/shared/middleware/auth"
)

// GuardService decide, por petición y sin estado, si una identidad puede
// operar sobre una historia existente. Se aplica como compuerta antes de
// cualquier lectura o mutación dirigida a una historia concreta; la
// creación no pasa por aquí porque queda acotada al alumno creador.
type GuardService struct {
	db *postgres.Client
}

// NewGuardService crea una nueva instancia de la guarda de acceso
func NewGuardService(db *postgres.Client) *GuardService {
	return &GuardService{db: db}
}

// Acceso son las referencias de pertenencia de una historia
type Acceso struct {
	HistoriaID     int64
	AlumnoID       int64
	ProfesorInfoID int64
	Archivado      bool
}

// Autorizar verifica que la identidad pueda operar sobre la historia.
// Una denegación se reporta como no-encontrado para no filtrar existencia.
func (s *GuardService) Autorizar(ctx context.Context, historiaID int64, ident auth.Identidad) (*Acceso, error) {
	acceso := &Acceso{HistoriaID: historiaID}

	err := s.db.QueryRow(ctx, queries.HistoriaQueries.GetAcceso, historiaID).Scan(
		&acceso.AlumnoID,
		&acceso.ProfesorInfoID,
		&acceso.Archivado,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNoEncontrado("historia clínica", historiaID)
		}
		return nil, ErrDB("verificación de acceso", err)
	}

	if !PuedeAcceder(ident, acceso.AlumnoID, acceso.ProfesorInfoID) {
		return nil, ErrNoEncontrado("historia clínica", historiaID)
	}

	return acceso, nil
}

// PuedeAcceder es la regla de decisión pura:
//   - admin: siempre
//   - profesor: solo si la asignación docente de la historia es suya
//   - alumno: solo si la historia es de su autoría
//   - cualquier otro rol: denegado
func PuedeAcceder(ident auth.Identidad, alumnoID, profesorInfoID int64) bool {
	switch ident.Rol {
	case auth.RolAdmin:
		return true
	case auth.RolProfesor:
		return ident.ProfesorInfoID != nil && *ident.ProfesorInfoID == profesorInfoID
	case auth.RolAlumno:
		return ident.AlumnoInfoID != nil && *ident.AlumnoInfoID == alumnoID
	default:
		return false
	}
}
