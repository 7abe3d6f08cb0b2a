package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"optometria-core/internal/infrastructure/database/postgres"
	catalogos "optometria-core/internal/modules/catalogos/services"
	"optometria-core/internal/modules/historias/dto"
	"optometria-core/internal/modules/historias/queries"
	"optometria-core/internal/modules/historias/secciones"
	imagenesqueries "optometria-core/internal/modules/imagenes/queries"
	auth "optometria-core/internal/shared/middleware/auth"
)

// ActualizacionService cubre las mutaciones sobre historias existentes:
// edición de secciones, transición de estado, archivo y eliminación.
// Toda mutación pasa primero por la guarda de acceso y rechaza historias
// archivadas, con la única excepción del desarchivo mismo.
type ActualizacionService struct {
	db        *postgres.Client
	txManager *postgres.TransactionManager
	guard     *GuardService
	catalogos *catalogos.CatalogosService
	lectura   *LecturaService
	auditoria *AuditoriaService
}

// NewActualizacionService crea una nueva instancia del servicio de actualización
func NewActualizacionService(
	db *postgres.Client,
	txManager *postgres.TransactionManager,
	guard *GuardService,
	catalogosService *catalogos.CatalogosService,
	lectura *LecturaService,
	auditoria *AuditoriaService,
) *ActualizacionService {
	return &ActualizacionService{
		db:        db,
		txManager: txManager,
		guard:     guard,
		catalogos: catalogosService,
		lectura:   lectura,
		auditoria: auditoria,
	}
}

// parteEditable es una sub-sección ya resuelta lista para persistir
type parteEditable struct {
	def     *secciones.Definicion
	payload interface{}
}

// ActualizarSeccion aplica un parche a una sección editable o a un grupo
// compuesto, de forma atómica, y retorna el agregado actualizado.
//
// Las claves compuestas ("binocularidad", "deteccion-alteraciones")
// esperan un cuerpo con una clave por sub-sección; las editables reciben
// el payload de la sección directamente. Cualquier otra clave, incluidas
// las secciones de solo-creación, se rechaza como desconocida.
func (s *ActualizacionService) ActualizarSeccion(
	ctx context.Context,
	ident auth.Identidad,
	historiaID int64,
	clave string,
	cuerpo json.RawMessage,
) (*dto.HistoriaRespuesta, error) {
	acceso, err := s.guard.Autorizar(ctx, historiaID, ident)
	if err != nil {
		return nil, err
	}
	if acceso.Archivado {
		return nil, ErrArchivada(historiaID)
	}

	partes, err := resolverPartes(clave, cuerpo)
	if err != nil {
		return nil, err
	}

	err = s.txManager.WithTransaction(ctx, func(tx *postgres.Transaction) error {
		for _, parte := range partes {
			if err := aplicarParte(ctx, tx, historiaID, parte); err != nil {
				return err
			}
		}
		if err := tx.Exec(ctx, queries.HistoriaQueries.BumpActualizadoEn, historiaID); err != nil {
			return ErrDB("actualización de marca temporal", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.auditoria.RegistrarAsincrono(EventoAuditoria{
		HistoriaID: historiaID,
		Tipo:       "seccion_actualizada",
		UsuarioID:  ident.UsuarioID,
		Rol:        ident.Rol,
		Detalle:    clave,
	})

	return s.lectura.ObtenerCompleta(ctx, historiaID, ident)
}

// resolverPartes traduce la clave del parche a las definiciones afectadas
func resolverPartes(clave string, cuerpo json.RawMessage) ([]parteEditable, error) {
	if subclaves, esCompuesta := secciones.Compuestas[clave]; esCompuesta {
		var mapa map[string]json.RawMessage
		if err := json.Unmarshal(cuerpo, &mapa); err != nil {
			return nil, ErrValidacion("cuerpo del parche inválido", map[string]interface{}{
				"causa": err.Error(),
			})
		}

		partes := []parteEditable{}
		for _, subclave := range subclaves {
			crudo, presente := mapa[subclave]
			if !presente {
				continue
			}
			def, err := secciones.Buscar(subclave)
			if err != nil {
				return nil, ErrSeccionDesconocida(subclave)
			}
			payload, err := decodificarPayload(def, crudo)
			if err != nil {
				return nil, err
			}
			partes = append(partes, parteEditable{def: def, payload: payload})
		}

		if len(partes) == 0 {
			return nil, ErrValidacion("el parche compuesto no trae ninguna sub-sección", map[string]interface{}{
				"clave":     clave,
				"esperadas": subclaves,
			})
		}
		return partes, nil
	}

	if !secciones.Editables[clave] {
		return nil, ErrSeccionDesconocida(clave)
	}

	def, err := secciones.Buscar(clave)
	if err != nil {
		return nil, ErrSeccionDesconocida(clave)
	}
	payload, err := decodificarPayload(def, cuerpo)
	if err != nil {
		return nil, err
	}
	return []parteEditable{{def: def, payload: payload}}, nil
}

// decodificarPayload interpreta el cuerpo según la cardinalidad de la sección
func decodificarPayload(def *secciones.Definicion, crudo json.RawMessage) (interface{}, error) {
	if def.Cardinalidad == secciones.Varias {
		var filas []map[string]interface{}
		if err := json.Unmarshal(crudo, &filas); err != nil {
			return nil, ErrValidacion("la sección espera un arreglo de mediciones", map[string]interface{}{
				"seccion": def.Clave,
			})
		}
		return filas, nil
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(crudo, &payload); err != nil {
		return nil, ErrValidacion("la sección espera un objeto", map[string]interface{}{
			"seccion": def.Clave,
		})
	}
	return payload, nil
}

// aplicarParte persiste una sub-sección. Las de cardinalidad múltiple se
// reemplazan por completo: borrar todo e insertar las filas entrantes,
// dentro de la misma transacción. Las unitarias usan el upsert atómico.
func aplicarParte(ctx context.Context, tx *postgres.Transaction, historiaID int64, parte parteEditable) error {
	if parte.def.Cardinalidad == secciones.Varias {
		if err := tx.Exec(ctx, secciones.SQLDelete(parte.def), historiaID); err != nil {
			return ErrDB("reemplazo de sección "+parte.def.Clave, err)
		}
		filas, _ := parte.payload.([]map[string]interface{})
		sql := secciones.SQLInsert(parte.def)
		for _, fila := range filas {
			if err := tx.Exec(ctx, sql, secciones.Valores(parte.def, historiaID, fila)...); err != nil {
				return ErrDB("reemplazo de sección "+parte.def.Clave, err)
			}
		}
		return nil
	}

	payload, _ := parte.payload.(map[string]interface{})
	if err := tx.Exec(ctx, secciones.SQLUpsert(parte.def), secciones.Valores(parte.def, historiaID, payload)...); err != nil {
		return ErrDB("actualización de sección "+parte.def.Clave, err)
	}
	return nil
}

// CambiarEstado transiciona el estado de la historia. Solo el alumno
// titular o un administrador pueden hacerlo.
func (s *ActualizacionService) CambiarEstado(
	ctx context.Context,
	ident auth.Identidad,
	historiaID int64,
	req *dto.CambiarEstadoRequest,
) error {
	acceso, err := s.guard.Autorizar(ctx, historiaID, ident)
	if err != nil {
		return err
	}
	if acceso.Archivado {
		return ErrArchivada(historiaID)
	}
	if ident.Rol == auth.RolProfesor {
		return ErrNoAutorizado("el profesor no puede cambiar el estado de la historia")
	}

	if req.EstadoID == 0 {
		return ErrValidacion("el estado destino es requerido", map[string]interface{}{
			"campo": "estadoID",
		})
	}

	if err := s.db.Exec(ctx, queries.HistoriaQueries.CambiarEstado, historiaID, req.EstadoID); err != nil {
		return ErrDB("cambio de estado", err)
	}

	s.auditoria.RegistrarAsincrono(EventoAuditoria{
		HistoriaID: historiaID,
		Tipo:       "estado_cambiado",
		UsuarioID:  ident.UsuarioID,
		Rol:        ident.Rol,
		Detalle:    fmt.Sprintf("estado %d", req.EstadoID),
	})

	return nil
}

// AlternarArchivo archiva o desarchiva la historia. Solo administradores.
// Archivar fija además el estado Finalizado; desarchivar conserva el
// estado vigente y vuelve a permitir ediciones.
func (s *ActualizacionService) AlternarArchivo(
	ctx context.Context,
	ident auth.Identidad,
	historiaID int64,
	req *dto.ArchivoRequest,
) error {
	if !ident.EsAdmin() {
		return ErrNoAutorizado("solo un administrador puede archivar historias")
	}

	if _, err := s.guard.Autorizar(ctx, historiaID, ident); err != nil {
		return err
	}

	if req.Archivar {
		estadoFinal := s.catalogos.ResolverEstado(ctx, catalogos.EstadoFinalizado)
		if err := s.db.Exec(ctx, queries.HistoriaQueries.Archivar, historiaID, estadoFinal); err != nil {
			return ErrDB("archivo de historia", err)
		}
		fmt.Printf("[HISTORIAS] ✅ Historia %d archivada\n", historiaID)
		s.auditoria.RegistrarAsincrono(EventoAuditoria{
			HistoriaID: historiaID,
			Tipo:       "archivada",
			UsuarioID:  ident.UsuarioID,
			Rol:        ident.Rol,
		})
		return nil
	}

	if err := s.db.Exec(ctx, queries.HistoriaQueries.Desarchivar, historiaID); err != nil {
		return ErrDB("desarchivo de historia", err)
	}
	fmt.Printf("[HISTORIAS] ✅ Historia %d desarchivada\n", historiaID)
	s.auditoria.RegistrarAsincrono(EventoAuditoria{
		HistoriaID: historiaID,
		Tipo:       "desarchivada",
		UsuarioID:  ident.UsuarioID,
		Rol:        ident.Rol,
	})
	return nil
}

// Eliminar borra la historia completa con sus secciones, su hilo de
// comentarios y sus imágenes, en una sola transacción. Solo
// administradores. El esquema heredado no declara ON DELETE CASCADE,
// así que el orden de borrado respeta las FK a mano. Los archivos de
// imagen en disco se limpian tras el commit, best effort.
func (s *ActualizacionService) Eliminar(ctx context.Context, ident auth.Identidad, historiaID int64) error {
	if !ident.EsAdmin() {
		return ErrNoAutorizado("solo un administrador puede eliminar historias")
	}

	if _, err := s.guard.Autorizar(ctx, historiaID, ident); err != nil {
		return err
	}

	var rutasImagenes []string

	err := s.txManager.WithTransaction(ctx, func(tx *postgres.Transaction) error {
		for _, def := range secciones.Todas() {
			if err := tx.Exec(ctx, secciones.SQLDelete(&def), historiaID); err != nil {
				return ErrDB("borrado de sección "+def.Clave, err)
			}
		}

		// Las filas de sección que referenciaban cada ImagenID ya no
		// existen; la FK a la historia es lo que las sigue encontrando
		rutas, err := listarRutasImagenes(ctx, tx, historiaID)
		if err != nil {
			return ErrDB("listado de imágenes", err)
		}
		rutasImagenes = rutas
		if err := tx.Exec(ctx, imagenesqueries.ImagenQueries.EliminarPorHistoria, historiaID); err != nil {
			return ErrDB("borrado de imágenes", err)
		}

		if err := tx.Exec(ctx, queries.ComentarioQueries.EliminarRespuestasPorHistoria, historiaID); err != nil {
			return ErrDB("borrado de respuestas", err)
		}
		if err := tx.Exec(ctx, queries.ComentarioQueries.EliminarComentariosPorHistoria, historiaID); err != nil {
			return ErrDB("borrado de comentarios", err)
		}

		if err := tx.Exec(ctx, queries.HistoriaQueries.Eliminar, historiaID); err != nil {
			return ErrDB("borrado de historia", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, ruta := range rutasImagenes {
		if err := os.Remove(ruta); err != nil && !os.IsNotExist(err) {
			fmt.Printf("[HISTORIAS] ⚠️ Archivo de imagen no eliminado %s: %v\n", ruta, err)
		}
	}

	fmt.Printf("[HISTORIAS] ✅ Historia %d eliminada\n", historiaID)
	s.auditoria.RegistrarAsincrono(EventoAuditoria{
		HistoriaID: historiaID,
		Tipo:       "eliminada",
		UsuarioID:  ident.UsuarioID,
		Rol:        ident.Rol,
	})
	return nil
}

func listarRutasImagenes(ctx context.Context, tx *postgres.Transaction, historiaID int64) ([]string, error) {
	rows, err := tx.Query(ctx, imagenesqueries.ImagenQueries.ListarRutasPorHistoria, historiaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rutas := []string{}
	for rows.Next() {
		var ruta string
		if err := rows.Scan(&ruta); err != nil {
			return nil, err
		}
		rutas = append(rutas, ruta)
	}
	return rutas, rows.Err()
}
