package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"optometria-core/internal/infrastructure/database/postgres"
	"optometria-core/internal/modules/historias/dto"
	"optometria-core/internal/modules/historias/queries"
	auth "optometria-core/internal/shared/middleware/auth"
)

// ComentariosService maneja el hilo de revisión docente: comentarios de
// profesores o administradores y respuestas del alumno titular. El hilo
// es de dos niveles exactos, sin respuestas anidadas.
type ComentariosService struct {
	db        *postgres.Client
	guard     *GuardService
	auditoria *AuditoriaService
}

// NewComentariosService crea una nueva instancia del servicio de comentarios
func NewComentariosService(db *postgres.Client, guard *GuardService, auditoria *AuditoriaService) *ComentariosService {
	return &ComentariosService{db: db, guard: guard, auditoria: auditoria}
}

// Comentar publica un comentario de revisión sobre la historia.
// Los administradores comentan con una ficha de profesor materializada
// automáticamente la primera vez, para compartir el modelo de autoría.
func (s *ComentariosService) Comentar(
	ctx context.Context,
	ident auth.Identidad,
	historiaID int64,
	req *dto.CrearComentarioRequest,
) (*dto.ComentarioRespuesta, error) {
	if ident.Rol == auth.RolAlumno {
		return nil, ErrNoAutorizado("el alumno no puede abrir comentarios de revisión")
	}
	if strings.TrimSpace(req.Texto) == "" {
		return nil, ErrValidacion("el comentario no puede estar vacío", map[string]interface{}{
			"campo": "texto",
		})
	}

	acceso, err := s.guard.Autorizar(ctx, historiaID, ident)
	if err != nil {
		return nil, err
	}
	if acceso.Archivado {
		return nil, ErrArchivada(historiaID)
	}

	profesorInfoID, err := s.resolverProfesor(ctx, ident)
	if err != nil {
		return nil, err
	}

	comentario := &dto.ComentarioRespuesta{
		ProfesorInfoID: profesorInfoID,
		Texto:          req.Texto,
		Respuestas:     []dto.RespuestaRespuesta{},
	}

	err = s.db.QueryRow(ctx, queries.ComentarioQueries.InsertarComentario,
		historiaID, profesorInfoID, req.Texto,
	).Scan(&comentario.ID, &comentario.CreadoEn)
	if err != nil {
		return nil, ErrDB("inserción de comentario", err)
	}

	s.auditoria.RegistrarAsincrono(EventoAuditoria{
		HistoriaID: historiaID,
		Tipo:       "comentario_publicado",
		UsuarioID:  ident.UsuarioID,
		Rol:        ident.Rol,
	})

	return comentario, nil
}

// Responder publica la respuesta del alumno titular a un comentario.
// La historia archivada cierra también su hilo.
func (s *ComentariosService) Responder(
	ctx context.Context,
	ident auth.Identidad,
	historiaID int64,
	comentarioID int64,
	req *dto.CrearRespuestaRequest,
) (*dto.RespuestaRespuesta, error) {
	if ident.Rol != auth.RolAlumno || ident.AlumnoInfoID == nil {
		return nil, ErrNoAutorizado("solo el alumno titular puede responder comentarios")
	}
	if strings.TrimSpace(req.Texto) == "" {
		return nil, ErrValidacion("la respuesta no puede estar vacía", map[string]interface{}{
			"campo": "texto",
		})
	}

	acceso, err := s.guard.Autorizar(ctx, historiaID, ident)
	if err != nil {
		return nil, err
	}
	if acceso.Archivado {
		return nil, ErrArchivada(historiaID)
	}

	// El comentario debe existir y pertenecer a esta historia
	var encontradoID, historiaDelComentario int64
	err = s.db.QueryRow(ctx, queries.ComentarioQueries.GetComentario, comentarioID).
		Scan(&encontradoID, &historiaDelComentario)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNoEncontrado("comentario", comentarioID)
		}
		return nil, ErrDB("búsqueda de comentario", err)
	}
	if historiaDelComentario != historiaID {
		return nil, ErrNoEncontrado("comentario", comentarioID)
	}

	respuesta := &dto.RespuestaRespuesta{
		ComentarioID: comentarioID,
		AlumnoID:     *ident.AlumnoInfoID,
		Texto:        req.Texto,
	}

	err = s.db.QueryRow(ctx, queries.ComentarioQueries.InsertarRespuesta,
		comentarioID, *ident.AlumnoInfoID, req.Texto,
	).Scan(&respuesta.ID, &respuesta.CreadoEn)
	if err != nil {
		return nil, ErrDB("inserción de respuesta", err)
	}

	s.auditoria.RegistrarAsincrono(EventoAuditoria{
		HistoriaID: historiaID,
		Tipo:       "respuesta_publicada",
		UsuarioID:  ident.UsuarioID,
		Rol:        ident.Rol,
	})

	return respuesta, nil
}

// ListarPorHistoria retorna el hilo completo de la historia. Lectura
// permitida incluso archivada.
func (s *ComentariosService) ListarPorHistoria(
	ctx context.Context,
	ident auth.Identidad,
	historiaID int64,
) ([]dto.ComentarioRespuesta, error) {
	if _, err := s.guard.Autorizar(ctx, historiaID, ident); err != nil {
		return nil, err
	}

	hilo, err := cargarHilo(ctx, s.db, historiaID)
	if err != nil {
		return nil, ErrDB("lectura de comentarios", err)
	}
	return hilo, nil
}

// resolverProfesor obtiene la ficha de autoría del comentarista. Para un
// profesor viene en su identidad; a un admin sin ficha se le provisiona
// una al vuelo.
func (s *ComentariosService) resolverProfesor(ctx context.Context, ident auth.Identidad) (int64, error) {
	if ident.ProfesorInfoID != nil {
		return *ident.ProfesorInfoID, nil
	}

	var profesorInfoID int64
	err := s.db.QueryRow(ctx, queries.ComentarioQueries.BuscarProfesorPorUsuario, ident.UsuarioID).
		Scan(&profesorInfoID)
	if err == nil {
		return profesorInfoID, nil
	}
	if err != pgx.ErrNoRows {
		return 0, ErrDB("resolución de autoría", err)
	}

	err = s.db.QueryRow(ctx, queries.ComentarioQueries.ProvisionarProfesor, ident.UsuarioID).
		Scan(&profesorInfoID)
	if err != nil {
		return 0, ErrDB("provisión de ficha de profesor", err)
	}

	fmt.Printf("[COMENTARIOS] ✅ Ficha de profesor %d provisionada para usuario %d\n",
		profesorInfoID, ident.UsuarioID)
	return profesorInfoID, nil
}
