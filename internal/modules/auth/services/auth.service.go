package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"optometria-core/internal/infrastructure/database/postgres"
	"optometria-core/internal/modules/auth/dto"
	"optometria-core/internal/modules/auth/queries"
	auth "optometria-core/internal/shared/middleware/auth"
	"optometria-core/internal/shared/utils"
)

// ErrCredenciales cubre usuario inexistente, inactivo o contraseña
// incorrecta; el mensaje no distingue el caso
var ErrCredenciales = errors.New("credenciales inválidas")

// AuthService autentica usuarios contra el esquema heredado y abre
// sesiones. Las contraseñas legadas son SHA512+salt; las cuentas nuevas
// usan bcrypt y la verificación detecta el esquema por el prefijo.
type AuthService struct {
	db       *postgres.Client
	sesiones *SessionService
}

// NewAuthService crea una nueva instancia del servicio de autenticación
func NewAuthService(db *postgres.Client, sesiones *SessionService) *AuthService {
	return &AuthService{db: db, sesiones: sesiones}
}

// Login verifica las credenciales y abre la sesión
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginRespuesta, error) {
	var (
		usuarioID    int64
		usuario      string
		nombre       string
		passwordHash string
		salt         string
		rol          string
		activo       bool
	)

	err := s.db.QueryRow(ctx, queries.AuthQueries.BuscarUsuario, req.Usuario).Scan(
		&usuarioID, &usuario, &nombre, &passwordHash, &salt, &rol, &activo,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrCredenciales
		}
		return nil, fmt.Errorf("búsqueda de usuario: %w", err)
	}

	if !activo {
		return nil, ErrCredenciales
	}

	if !utils.VerifyPassword(req.Password, salt, passwordHash) {
		return nil, ErrCredenciales
	}

	ident := auth.Identidad{
		UsuarioID: usuarioID,
		Rol:       rol,
	}

	// La ficha de rol amarra la identidad a su alcance de datos
	switch rol {
	case auth.RolAlumno:
		var alumnoInfoID int64
		err = s.db.QueryRow(ctx, queries.AuthQueries.BuscarAlumnoInfo, usuarioID).Scan(&alumnoInfoID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, ErrCredenciales
			}
			return nil, fmt.Errorf("búsqueda de ficha de alumno: %w", err)
		}
		ident.AlumnoInfoID = &alumnoInfoID
	case auth.RolProfesor:
		var profesorInfoID int64
		err = s.db.QueryRow(ctx, queries.AuthQueries.BuscarProfesorInfo, usuarioID).Scan(&profesorInfoID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, ErrCredenciales
			}
			return nil, fmt.Errorf("búsqueda de ficha de profesor: %w", err)
		}
		ident.ProfesorInfoID = &profesorInfoID
	case auth.RolAdmin:
		// Sin ficha adicional
	default:
		return nil, ErrCredenciales
	}

	token, err := s.sesiones.Crear(ctx, ident)
	if err != nil {
		return nil, err
	}

	fmt.Printf("[AUTH] ✅ Sesión abierta para usuario %s (%s)\n", usuario, rol)

	return &dto.LoginRespuesta{
		Token: token,
		Usuario: dto.UsuarioRespuesta{
			ID:             usuarioID,
			Usuario:        usuario,
			Nombre:         nombre,
			Rol:            rol,
			AlumnoInfoID:   ident.AlumnoInfoID,
			ProfesorInfoID: ident.ProfesorInfoID,
		},
	}, nil
}

// Logout revoca la sesión del token
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sesiones.Cerrar(ctx, token)
}
