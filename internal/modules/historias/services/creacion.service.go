package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"optometria-core/internal/infrastructure/database/postgres"
	catalogos "optometria-core/internal/modules/catalogos/services"
	"optometria-core/internal/modules/historias/dto"
	"optometria-core/internal/modules/historias/queries"
	"optometria-core/internal/modules/historias/secciones"
	auth "optometria-core/internal/shared/middleware/auth"
)

// CreacionService orquesta la creación completa de una historia clínica:
// resolución del paciente, inserción de la raíz con su estado inicial y
// las filas de cada sección capturada, todo en una sola transacción.
// Ante cualquier falla la transacción se revierte completa: ningún lector
// ve jamás una historia parcial.
type CreacionService struct {
	db        *postgres.Client
	txManager *postgres.TransactionManager
	catalogos *catalogos.CatalogosService
	lectura   *LecturaService
	auditoria *AuditoriaService
}

// NewCreacionService crea una nueva instancia del servicio de creación
func NewCreacionService(
	db *postgres.Client,
	txManager *postgres.TransactionManager,
	catalogosService *catalogos.CatalogosService,
	lectura *LecturaService,
	auditoria *AuditoriaService,
) *CreacionService {
	return &CreacionService{
		db:        db,
		txManager: txManager,
		catalogos: catalogosService,
		lectura:   lectura,
		auditoria: auditoria,
	}
}

// CrearCompleta crea la historia y retorna el agregado recién leído
func (s *CreacionService) CrearCompleta(
	ctx context.Context,
	ident auth.Identidad,
	req *dto.CrearHistoriaRequest,
) (*dto.HistoriaRespuesta, error) {
	if ident.AlumnoInfoID == nil {
		return nil, ErrNoAutorizado("solo un alumno puede crear historias clínicas")
	}
	alumnoID := *ident.AlumnoInfoID

	// La validación de campos del paciente corresponde a este punto solo
	// cuando no viene un ID explícito
	if req.Paciente.ID == nil {
		if err := validarPaciente(&req.Paciente); err != nil {
			return nil, err
		}
	}

	if req.MateriaProfesorID == 0 {
		return nil, ErrValidacion("la asignación docente es requerida", map[string]interface{}{
			"campo": "materiaProfesorID",
		})
	}

	// Resolución del estado inicial, con respaldo degradado explícito
	estadoID := s.catalogos.ResolverEstado(ctx, catalogos.EstadoEnProceso)

	mapaSecciones, err := seccionesAMapa(&req.Secciones)
	if err != nil {
		return nil, ErrValidacion("secciones con formato inválido", map[string]interface{}{
			"causa": err.Error(),
		})
	}

	var historiaID int64

	err = s.txManager.WithTransaction(ctx, func(tx *postgres.Transaction) error {
		// (a) resolver paciente: reutilizar por ID o por contacto, o crear
		pacienteID, err := s.resolverPaciente(ctx, tx, &req.Paciente)
		if err != nil {
			return err
		}

		// (b) insertar la raíz del agregado
		var creadoEn, actualizadoEn time.Time
		err = tx.QueryRow(ctx, queries.HistoriaQueries.InsertHistoria,
			pacienteID,
			alumnoID,
			req.MateriaProfesorID,
			req.ConsultorioID,
			req.PeriodoEscolarID,
			estadoID,
		).Scan(&historiaID, &creadoEn, &actualizadoEn)
		if err != nil {
			return ErrDB("inserción de historia", err)
		}

		// (c) una fila por sección capturada; las ausentes quedan sin fila
		if err := insertarSecciones(ctx, tx, historiaID, mapaSecciones); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	fmt.Printf("[HISTORIAS] ✅ Historia %d creada por alumno %d\n", historiaID, alumnoID)
	s.auditoria.RegistrarAsincrono(EventoAuditoria{
		HistoriaID: historiaID,
		Tipo:       "creada",
		UsuarioID:  ident.UsuarioID,
		Rol:        ident.Rol,
	})

	// Retornar el agregado recién ensamblado
	return s.lectura.ObtenerCompleta(ctx, historiaID, ident)
}

// resolverPaciente implementa la deduplicación: ID explícito, luego
// correo o teléfono, y en último término inserción de un expediente nuevo
func (s *CreacionService) resolverPaciente(
	ctx context.Context,
	tx *postgres.Transaction,
	paciente *dto.PacienteInput,
) (int64, error) {
	if paciente.ID != nil {
		var existente dto.PacienteRespuesta
		err := tx.QueryRow(ctx, queries.PacienteQueries.BuscarPorID, *paciente.ID).Scan(
			&existente.ID, &existente.Nombre, &existente.ApellidoPaterno,
			&existente.ApellidoMaterno, &existente.GeneroID, &existente.Edad,
			&existente.CURP, &existente.Correo, &existente.Telefono,
			&existente.Direccion, &existente.Ocupacion,
		)
		if err != nil {
			if err == pgx.ErrNoRows {
				return 0, ErrNoEncontrado("paciente", *paciente.ID)
			}
			return 0, ErrDB("búsqueda de paciente", err)
		}
		return existente.ID, nil
	}

	// Dedup por correo O teléfono
	if paciente.Correo != nil || paciente.Telefono != nil {
		var existente dto.PacienteRespuesta
		err := tx.QueryRow(ctx, queries.PacienteQueries.BuscarPorContacto,
			paciente.Correo, paciente.Telefono,
		).Scan(
			&existente.ID, &existente.Nombre, &existente.ApellidoPaterno,
			&existente.ApellidoMaterno, &existente.GeneroID, &existente.Edad,
			&existente.CURP, &existente.Correo, &existente.Telefono,
			&existente.Direccion, &existente.Ocupacion,
		)
		if err == nil {
			return existente.ID, nil
		}
		if err != pgx.ErrNoRows {
			return 0, ErrDB("deduplicación de paciente", err)
		}
	}

	var pacienteID int64
	err := tx.QueryRow(ctx, queries.PacienteQueries.Insertar,
		paciente.Nombre,
		paciente.ApellidoPaterno,
		paciente.ApellidoMaterno,
		paciente.GeneroID,
		paciente.Edad,
		paciente.CURP,
		paciente.Correo,
		paciente.Telefono,
		paciente.Direccion,
		paciente.Ocupacion,
	).Scan(&pacienteID)
	if err != nil {
		return 0, ErrDB("inserción de paciente", err)
	}

	return pacienteID, nil
}

// insertarSecciones recorre el registro en orden canónico e inserta las
// secciones presentes en el payload. agudezaVisual acepta un arreglo e
// inserta una fila por medición; el resto inserta a lo más una fila.
func insertarSecciones(
	ctx context.Context,
	tx *postgres.Transaction,
	historiaID int64,
	mapaSecciones map[string]interface{},
) error {
	for _, def := range secciones.Todas() {
		crudo, presente := mapaSecciones[def.Clave]
		if !presente || crudo == nil {
			continue
		}

		if def.Cardinalidad == secciones.Varias {
			filas, ok := crudo.([]interface{})
			if !ok {
				continue
			}
			sql := secciones.SQLInsert(&def)
			for _, fila := range filas {
				payload, ok := fila.(map[string]interface{})
				if !ok {
					continue
				}
				if err := tx.Exec(ctx, sql, secciones.Valores(&def, historiaID, payload)...); err != nil {
					return ErrDB("inserción de sección "+def.Clave, err)
				}
			}
			continue
		}

		payload, ok := crudo.(map[string]interface{})
		if !ok {
			continue
		}
		if err := tx.Exec(ctx, secciones.SQLUpsert(&def), secciones.Valores(&def, historiaID, payload)...); err != nil {
			return ErrDB("inserción de sección "+def.Clave, err)
		}
	}

	return nil
}

// seccionesAMapa proyecta la entrada tipada al mapa clave→payload que
// consumen los constructores genéricos de SQL
func seccionesAMapa(entrada *dto.SeccionesInput) (map[string]interface{}, error) {
	crudo, err := json.Marshal(entrada)
	if err != nil {
		return nil, err
	}

	var mapa map[string]interface{}
	if err := json.Unmarshal(crudo, &mapa); err != nil {
		return nil, err
	}

	return mapa, nil
}

// validarPaciente exige los campos mínimos del expediente nuevo
func validarPaciente(paciente *dto.PacienteInput) error {
	faltantes := []string{}

	if strings.TrimSpace(paciente.Nombre) == "" {
		faltantes = append(faltantes, "nombre")
	}
	if strings.TrimSpace(paciente.ApellidoPaterno) == "" {
		faltantes = append(faltantes, "apellidoPaterno")
	}
	if paciente.GeneroID == 0 {
		faltantes = append(faltantes, "generoID")
	}
	if paciente.Edad == 0 {
		faltantes = append(faltantes, "edad")
	}
	if strings.TrimSpace(paciente.CURP) == "" {
		faltantes = append(faltantes, "curp")
	}

	if len(faltantes) > 0 {
		return ErrValidacion("datos del paciente incompletos", map[string]interface{}{
			"faltantes": faltantes,
		})
	}

	return nil
}
