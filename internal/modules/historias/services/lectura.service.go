package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"

	"optometria-core/internal/infrastructure/database/postgres"
	"optometria-core/internal/modules/historias/dto"
	"optometria-core/internal/modules/historias/queries"
	"optometria-core/internal/modules/historias/secciones"
	auth "optometria-core/internal/shared/middleware/auth"
)

// LecturaService ensambla el agregado completo de una historia clínica.
// La raíz se lee con la consulta del rol (el filtro de pertenencia vive
// en el SQL) y las 24 secciones se leen en paralelo, una goroutine por
// tabla sobre el pool compartido.
type LecturaService struct {
	db *postgres.Client
}

// NewLecturaService crea una nueva instancia del servicio de lectura
func NewLecturaService(db *postgres.Client) *LecturaService {
	return &LecturaService{db: db}
}

// ObtenerCompleta retorna la historia con sus 24 secciones y el hilo de
// comentarios. Una sección ilegible no tumba la respuesta: se reporta
// como no capturada (null, o [] para agudezaVisual) y se deja rastro en
// el log. La raíz sí es obligatoria.
func (s *LecturaService) ObtenerCompleta(
	ctx context.Context,
	historiaID int64,
	ident auth.Identidad,
) (*dto.HistoriaRespuesta, error) {
	respuesta, err := s.leerRaiz(ctx, historiaID, ident)
	if err != nil {
		return nil, err
	}

	defs := secciones.Todas()
	resultados := make([]interface{}, len(defs))

	var wg sync.WaitGroup
	for i := range defs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			def := defs[idx]
			valor, err := s.leerSeccion(ctx, historiaID, &def)
			if err != nil {
				fmt.Printf("[HISTORIAS] ⚠️ Sección %s ilegible para historia %d: %v\n",
					def.Clave, historiaID, err)
				return
			}
			resultados[idx] = valor
		}(i)
	}
	wg.Wait()

	// agudezaVisual siempre serializa como arreglo, aun sin mediciones
	respuesta.Secciones.AgudezaVisual = []dto.AgudezaVisual{}

	for i := range defs {
		if resultados[i] == nil {
			continue
		}
		crudo, err := json.Marshal(resultados[i])
		if err != nil {
			continue
		}
		if err := respuesta.Secciones.Asignar(defs[i].Clave, crudo); err != nil {
			fmt.Printf("[HISTORIAS] ⚠️ Sección %s no proyectable: %v\n", defs[i].Clave, err)
		}
	}

	// El hilo de comentarios degrada a vacío si falla su lectura
	comentarios, err := cargarHilo(ctx, s.db, historiaID)
	if err != nil {
		fmt.Printf("[HISTORIAS] ⚠️ Comentarios ilegibles para historia %d: %v\n", historiaID, err)
		comentarios = []dto.ComentarioRespuesta{}
	}
	respuesta.Comentarios = comentarios

	return respuesta, nil
}

// leerRaiz ejecuta la consulta de raíz del rol. Una historia ajena no se
// distingue de una inexistente: el filtro va dentro del SQL.
func (s *LecturaService) leerRaiz(
	ctx context.Context,
	historiaID int64,
	ident auth.Identidad,
) (*dto.HistoriaRespuesta, error) {
	var fila pgx.Row

	switch ident.Rol {
	case auth.RolAdmin:
		fila = s.db.QueryRow(ctx, queries.HistoriaQueries.GetRaizComoAdmin, historiaID)
	case auth.RolAlumno:
		if ident.AlumnoInfoID == nil {
			return nil, ErrNoEncontrado("historia clínica", historiaID)
		}
		fila = s.db.QueryRow(ctx, queries.HistoriaQueries.GetRaizComoAlumno, historiaID, *ident.AlumnoInfoID)
	case auth.RolProfesor:
		if ident.ProfesorInfoID == nil {
			return nil, ErrNoEncontrado("historia clínica", historiaID)
		}
		fila = s.db.QueryRow(ctx, queries.HistoriaQueries.GetRaizComoProfesor, historiaID, *ident.ProfesorInfoID)
	default:
		return nil, ErrNoEncontrado("historia clínica", historiaID)
	}

	respuesta := &dto.HistoriaRespuesta{Paciente: &dto.PacienteRespuesta{}}
	paciente := respuesta.Paciente

	err := fila.Scan(
		&respuesta.ID, &respuesta.PacienteID, &respuesta.AlumnoID,
		&respuesta.MateriaProfesorID, &respuesta.ConsultorioID, &respuesta.PeriodoEscolarID,
		&respuesta.EstadoID, &respuesta.Archivado, &respuesta.FechaArchivado,
		&respuesta.CreadoEn, &respuesta.ActualizadoEn,
		&paciente.ID, &paciente.Nombre, &paciente.ApellidoPaterno, &paciente.ApellidoMaterno,
		&paciente.GeneroID, &paciente.Edad, &paciente.CURP, &paciente.Correo, &paciente.Telefono,
		&paciente.Direccion, &paciente.Ocupacion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNoEncontrado("historia clínica", historiaID)
		}
		return nil, ErrDB("lectura de historia", err)
	}

	return respuesta, nil
}

// leerSeccion trae las filas de una sección ya normalizadas al contrato
// wire. Retorna nil cuando la sección unitaria no fue capturada.
func (s *LecturaService) leerSeccion(
	ctx context.Context,
	historiaID int64,
	def *secciones.Definicion,
) (interface{}, error) {
	rows, err := s.db.Query(ctx, secciones.SQLSelect(def), historiaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	filas := []map[string]interface{}{}
	for rows.Next() {
		valores, err := rows.Values()
		if err != nil {
			return nil, err
		}
		filas = append(filas, secciones.Normalizar(def, valores))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if def.Cardinalidad == secciones.Varias {
		if len(filas) == 0 {
			return nil, nil
		}
		return filas, nil
	}

	if len(filas) == 0 {
		return nil, nil
	}
	return filas[0], nil
}

// cargarHilo arma el hilo en dos viajes: comentarios y todas sus
// respuestas, agrupadas en memoria por comentario
func cargarHilo(ctx context.Context, db *postgres.Client, historiaID int64) ([]dto.ComentarioRespuesta, error) {
	rows, err := db.Query(ctx, queries.ComentarioQueries.ListarPorHistoria, historiaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comentarios := []dto.ComentarioRespuesta{}
	posiciones := map[int64]int{}

	for rows.Next() {
		var c dto.ComentarioRespuesta
		if err := rows.Scan(&c.ID, &c.ProfesorInfoID, &c.ProfesorNombre, &c.Texto, &c.CreadoEn); err != nil {
			return nil, err
		}
		c.Respuestas = []dto.RespuestaRespuesta{}
		posiciones[c.ID] = len(comentarios)
		comentarios = append(comentarios, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(comentarios) == 0 {
		return comentarios, nil
	}

	respuestas, err := db.Query(ctx, queries.ComentarioQueries.ListarRespuestas, historiaID)
	if err != nil {
		return nil, err
	}
	defer respuestas.Close()

	for respuestas.Next() {
		var r dto.RespuestaRespuesta
		if err := respuestas.Scan(&r.ID, &r.ComentarioID, &r.AlumnoID, &r.Texto, &r.CreadoEn); err != nil {
			return nil, err
		}
		if pos, ok := posiciones[r.ComentarioID]; ok {
			comentarios[pos].Respuestas = append(comentarios[pos].Respuestas, r)
		}
	}
	if err := respuestas.Err(); err != nil {
		return nil, err
	}

	return comentarios, nil
}

// Listar retorna el resumen de historias visibles para la identidad.
// El filtro de archivado solo aplica al administrador; alumno y profesor
// ven todo su alcance.
func (s *LecturaService) Listar(
	ctx context.Context,
	ident auth.Identidad,
	archivado *bool,
) ([]dto.HistoriaResumen, error) {
	var (
		rows pgx.Rows
		err  error
	)

	switch ident.Rol {
	case auth.RolAdmin:
		rows, err = s.db.Query(ctx, queries.HistoriaQueries.ListarComoAdmin, archivado)
	case auth.RolAlumno:
		if ident.AlumnoInfoID == nil {
			return []dto.HistoriaResumen{}, nil
		}
		rows, err = s.db.Query(ctx, queries.HistoriaQueries.ListarComoAlumno, *ident.AlumnoInfoID)
	case auth.RolProfesor:
		if ident.ProfesorInfoID == nil {
			return []dto.HistoriaResumen{}, nil
		}
		rows, err = s.db.Query(ctx, queries.HistoriaQueries.ListarComoProfesor, *ident.ProfesorInfoID)
	default:
		return []dto.HistoriaResumen{}, nil
	}
	if err != nil {
		return nil, ErrDB("listado de historias", err)
	}
	defer rows.Close()

	resumen := []dto.HistoriaResumen{}
	for rows.Next() {
		var h dto.HistoriaResumen
		if err := rows.Scan(&h.ID, &h.PacienteNombre, &h.AlumnoID, &h.EstadoID,
			&h.Archivado, &h.CreadoEn, &h.ActualizadoEn); err != nil {
			return nil, ErrDB("listado de historias", err)
		}
		resumen = append(resumen, h)
	}
	if err := rows.Err(); err != nil {
		return nil, ErrDB("listado de historias", err)
	}

	return resumen, nil
}
