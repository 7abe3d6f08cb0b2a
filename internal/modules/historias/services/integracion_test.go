package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"optometria-core/internal/infrastructure/database/postgres"
	"optometria-core/internal/infrastructure/database/redis"
	catalogos "optometria-core/internal/modules/catalogos/services"
	"optometria-core/internal/modules/historias/dto"
	"optometria-core/internal/modules/historias/secciones"
	auth "optometria-core/internal/shared/middleware/auth"
)

// Pruebas de servicio contra PostgreSQL real, activadas con
// TEST_DATABASE_URL. El esquema propio evita chocar con otras suites;
// Redis apunta a un puerto cerrado para que el catálogo resuelva
// siempre desde la base.

const esquemaServicios = "servicios_test"

var (
	poolServicios  *pgxpool.Pool
	dbPrueba       *postgres.Client
	txPrueba       *postgres.TransactionManager
	catalogoPrueba *catalogos.CatalogosService
)

func TestMain(m *testing.M) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		os.Exit(m.Run())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		os.Exit(1)
	}
	cfg.ConnConfig.RuntimeParams["search_path"] = esquemaServicios

	poolServicios, err = pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		os.Exit(1)
	}

	setup := []string{
		fmt.Sprintf(`DROP SCHEMA IF EXISTS %s CASCADE`, esquemaServicios),
		fmt.Sprintf(`CREATE SCHEMA %s`, esquemaServicios),
		`CREATE TABLE "Pacientes" (
			"PacienteID" BIGSERIAL PRIMARY KEY,
			"Nombre" TEXT, "ApellidoPaterno" TEXT, "ApellidoMaterno" TEXT,
			"GeneroID" BIGINT, "Edad" BIGINT, "CURP" TEXT,
			"Correo" TEXT, "Telefono" TEXT, "Direccion" TEXT, "Ocupacion" TEXT,
			"CreadoEn" TIMESTAMPTZ, "ActualizadoEn" TIMESTAMPTZ
		)`,
		`CREATE TABLE "HistoriasClinicas" (
			"HistoriaClinicaID" BIGSERIAL PRIMARY KEY,
			"PacienteID" BIGINT, "AlumnoID" BIGINT, "MateriaProfesorID" BIGINT,
			"ConsultorioID" BIGINT, "PeriodoEscolarID" BIGINT, "EstadoID" BIGINT,
			"Archivado" BOOLEAN NOT NULL DEFAULT false,
			"FechaArchivado" TIMESTAMPTZ,
			"CreadoEn" TIMESTAMPTZ, "ActualizadoEn" TIMESTAMPTZ
		)`,
		`CREATE TABLE "MateriasProfesor" (
			"MateriaProfesorID" BIGSERIAL PRIMARY KEY,
			"ProfesorInfoID" BIGINT
		)`,
		`CREATE TABLE "CatalogosGenerales" (
			"CatalogoID" BIGSERIAL PRIMARY KEY,
			"Grupo" TEXT, "Nombre" TEXT,
			"Orden" BIGINT DEFAULT 0, "Activo" BOOLEAN DEFAULT true
		)`,
		`INSERT INTO "CatalogosGenerales" ("Grupo", "Nombre", "Orden") VALUES
			('ESTADOS_HISTORIA', 'En proceso', 1),
			('ESTADOS_HISTORIA', 'Finalizado', 2)`,
		`INSERT INTO "MateriasProfesor" ("MateriaProfesorID", "ProfesorInfoID")
			VALUES (501, 77)`,
		`CREATE TABLE "ComentariosProfesor" (
			"ComentarioID" BIGSERIAL PRIMARY KEY,
			"HistoriaClinicaID" BIGINT NOT NULL,
			"ProfesorInfoID" BIGINT, "Texto" TEXT, "CreadoEn" TIMESTAMPTZ
		)`,
		`CREATE TABLE "RespuestasComentarios" (
			"RespuestaID" BIGSERIAL PRIMARY KEY,
			"ComentarioID" BIGINT NOT NULL,
			"AlumnoID" BIGINT, "Texto" TEXT, "CreadoEn" TIMESTAMPTZ
		)`,
		`CREATE TABLE "Imagenes" (
			"ImagenID" BIGSERIAL PRIMARY KEY,
			"HistoriaClinicaID" BIGINT NOT NULL,
			"NombreArchivo" TEXT, "Ruta" TEXT, "TipoMime" TEXT,
			"TamanoBytes" BIGINT, "SubidoPor" BIGINT, "CreadoEn" TIMESTAMPTZ
		)`,
	}
	for _, def := range secciones.Todas() {
		setup = append(setup, ddlTablaSeccion(def))
	}
	for _, sql := range setup {
		if _, err := poolServicios.Exec(ctx, sql); err != nil {
			fmt.Printf("setup de esquema de servicios: %v\n", err)
			os.Exit(1)
		}
	}

	dbPrueba = postgres.NewClientFromPool(poolServicios)
	txPrueba = postgres.NewTransactionManager(dbPrueba)
	catalogoPrueba = catalogos.NewCatalogosService(dbPrueba, redisInalcanzable())

	codigo := m.Run()
	poolServicios.Close()
	os.Exit(codigo)
}

func ddlTablaSeccion(def secciones.Definicion) string {
	columnas := []string{
		fmt.Sprintf(`"%sID" BIGSERIAL PRIMARY KEY`, def.Tabla),
		fmt.Sprintf(`"%s" BIGINT NOT NULL`, secciones.ColumnaFK),
	}
	if def.Cardinalidad == secciones.Una {
		columnas[1] += " UNIQUE"
	}
	for _, campo := range def.Campos {
		tipo := "TEXT"
		switch campo.Tipo {
		case secciones.Numero:
			tipo = "DOUBLE PRECISION"
		case secciones.Entero:
			tipo = "BIGINT"
		case secciones.Booleano:
			tipo = "BOOLEAN"
		case secciones.Fecha:
			tipo = "DATE"
		}
		columnas = append(columnas, fmt.Sprintf(`"%s" %s`, campo.Columna, tipo))
	}
	return fmt.Sprintf(`CREATE TABLE "%s" (%s)`, def.Tabla, strings.Join(columnas, ", "))
}

func redisInalcanzable() *redis.Client {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: time.Second,
		MaxRetries:  -1,
	})
	return redis.NewClientFromRedis(rdb, redis.NewRedisKeyGenerator("test"))
}

func requiereServicios(t *testing.T) {
	t.Helper()
	if poolServicios == nil {
		t.Skip("TEST_DATABASE_URL no definida")
	}
}

func cadenaA(v string) *string { return &v }

func decimalA(v float64) *float64 { return &v }

// Una falla en el insert de cualquier sección debe revertir la historia
// entera: ni raíz, ni paciente, ni las secciones ya escritas sobreviven.
func TestCreacionRevierteCompletaAnteFallaDeSeccion(t *testing.T) {
	requiereServicios(t)
	ctx := context.Background()

	// Los caminos probados fallan antes de llegar a la auditoría
	creacion := NewCreacionService(dbPrueba, txPrueba, catalogoPrueba,
		NewLecturaService(dbPrueba), &AuditoriaService{})

	// Sin la tabla de la última sección, su insert falla a mitad de
	// la transacción, después de raíz, paciente y secciones previas
	if _, err := poolServicios.Exec(ctx, `DROP TABLE "RecetaFinal"`); err != nil {
		t.Fatal(err)
	}
	defer func() {
		def, _ := secciones.Buscar("recetaFinal")
		if _, err := poolServicios.Exec(context.Background(), ddlTablaSeccion(*def)); err != nil {
			t.Fatalf("restauración de tabla: %v", err)
		}
	}()

	ident := auth.Identidad{UsuarioID: 10, Rol: auth.RolAlumno, AlumnoInfoID: punteroA(910)}
	req := &dto.CrearHistoriaRequest{
		Paciente: dto.PacienteInput{
			Nombre:          "Laura",
			ApellidoPaterno: "Mendoza",
			GeneroID:        2,
			Edad:            31,
			CURP:            "MELA950101MDFNNR08",
		},
		MateriaProfesorID: 501,
		Secciones: dto.SeccionesInput{
			Interrogatorio: &dto.Interrogatorio{MotivoConsulta: cadenaA("visión borrosa")},
			Diagnostico:    &dto.Diagnostico{Refractivo: cadenaA("miopía")},
			RecetaFinal:    &dto.RecetaFinal{EsferaOD: decimalA(-1.25)},
		},
	}

	_, err := creacion.CrearCompleta(ctx, ident, req)
	if err == nil {
		t.Fatal("la creación debió fallar con la tabla de sección ausente")
	}
	if !EsTipo(err, TipoDB) {
		t.Fatalf("tipo de error: %v", err)
	}

	conteos := map[string]string{
		"HistoriasClinicas": `SELECT COUNT(*) FROM "HistoriasClinicas" WHERE "AlumnoID" = 910`,
		"Pacientes":         `SELECT COUNT(*) FROM "Pacientes" WHERE "CURP" = 'MELA950101MDFNNR08'`,
		"Interrogatorio":    `SELECT COUNT(*) FROM "Interrogatorio"`,
		"Diagnostico":       `SELECT COUNT(*) FROM "Diagnostico"`,
	}
	for tabla, sql := range conteos {
		var total int
		if err := poolServicios.QueryRow(ctx, sql).Scan(&total); err != nil {
			t.Fatal(err)
		}
		if total != 0 {
			t.Errorf("%s: quedaron %d filas tras el rollback", tabla, total)
		}
	}
}

// La historia archivada rechaza toda mutación sin importar el rol;
// la bandera se evalúa antes de tocar cualquier tabla de sección.
func TestHistoriaArchivadaRechazaMutaciones(t *testing.T) {
	requiereServicios(t)
	ctx := context.Background()

	if _, err := poolServicios.Exec(ctx, `
		INSERT INTO "HistoriasClinicas" (
			"HistoriaClinicaID", "PacienteID", "AlumnoID", "MateriaProfesorID",
			"EstadoID", "Archivado", "FechaArchivado", "CreadoEn", "ActualizadoEn"
		) VALUES (801, 1, 910, 501, 2, true, NOW(), NOW(), NOW())`,
	); err != nil {
		t.Fatal(err)
	}

	actualizacion := NewActualizacionService(dbPrueba, txPrueba,
		NewGuardService(dbPrueba), catalogoPrueba,
		NewLecturaService(dbPrueba), &AuditoriaService{})

	admin := auth.Identidad{UsuarioID: 2, Rol: auth.RolAdmin}
	alumno := auth.Identidad{UsuarioID: 10, Rol: auth.RolAlumno, AlumnoInfoID: punteroA(910)}

	parche := json.RawMessage(`{"refractivo": "hipermetropía"}`)
	for _, ident := range []auth.Identidad{admin, alumno} {
		if _, err := actualizacion.ActualizarSeccion(ctx, ident, 801, "diagnostico", parche); !EsTipo(err, TipoArchivada) {
			t.Fatalf("parche como %s: %v, esperaba rechazo por archivo", ident.Rol, err)
		}
	}

	if err := actualizacion.CambiarEstado(ctx, admin, 801, &dto.CambiarEstadoRequest{EstadoID: 1}); !EsTipo(err, TipoArchivada) {
		t.Fatalf("cambio de estado: %v, esperaba rechazo por archivo", err)
	}

	var total int
	if err := poolServicios.QueryRow(ctx,
		`SELECT COUNT(*) FROM "Diagnostico" WHERE "HistoriaClinicaID" = 801`,
	).Scan(&total); err != nil {
		t.Fatal(err)
	}
	if total != 0 {
		t.Errorf("el parche rechazado escribió %d filas", total)
	}
}

// El borrado administrativo arrasa el agregado entero: secciones, hilo
// de comentarios, filas de imágenes y sus archivos en disco.
func TestEliminarArrasaImagenesYComentarios(t *testing.T) {
	requiereServicios(t)
	ctx := context.Background()

	const historiaID = 802
	ruta := filepath.Join(t.TempDir(), "fondo-ojo.png")
	if err := os.WriteFile(ruta, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}

	siembra := []string{
		fmt.Sprintf(`INSERT INTO "HistoriasClinicas" (
			"HistoriaClinicaID", "PacienteID", "AlumnoID", "MateriaProfesorID",
			"EstadoID", "CreadoEn", "ActualizadoEn"
		) VALUES (%d, 1, 911, 501, 1, NOW(), NOW())`, historiaID),
		fmt.Sprintf(`INSERT INTO "Diagnostico" ("HistoriaClinicaID", "Refractivo")
			VALUES (%d, 'miopía')`, historiaID),
		fmt.Sprintf(`INSERT INTO "ComentariosProfesor" (
			"ComentarioID", "HistoriaClinicaID", "ProfesorInfoID", "Texto", "CreadoEn"
		) VALUES (9001, %d, 77, 'revisar retinoscopía', NOW())`, historiaID),
		`INSERT INTO "RespuestasComentarios" ("ComentarioID", "AlumnoID", "Texto", "CreadoEn")
			VALUES (9001, 911, 'corregido', NOW())`,
		fmt.Sprintf(`INSERT INTO "Imagenes" (
			"HistoriaClinicaID", "NombreArchivo", "Ruta", "TipoMime", "TamanoBytes", "SubidoPor", "CreadoEn"
		) VALUES (%d, 'fondo.png', '%s', 'image/png', 3, 10, NOW())`, historiaID, ruta),
	}
	for _, sql := range siembra {
		if _, err := poolServicios.Exec(ctx, sql); err != nil {
			t.Fatal(err)
		}
	}

	actualizacion := NewActualizacionService(dbPrueba, txPrueba,
		NewGuardService(dbPrueba), catalogoPrueba,
		NewLecturaService(dbPrueba), &AuditoriaService{})

	admin := auth.Identidad{UsuarioID: 2, Rol: auth.RolAdmin}
	if err := actualizacion.Eliminar(ctx, admin, historiaID); err != nil {
		t.Fatalf("eliminación: %v", err)
	}

	conteos := map[string]string{
		"HistoriasClinicas":     `SELECT COUNT(*) FROM "HistoriasClinicas" WHERE "HistoriaClinicaID" = 802`,
		"Diagnostico":           `SELECT COUNT(*) FROM "Diagnostico" WHERE "HistoriaClinicaID" = 802`,
		"ComentariosProfesor":   `SELECT COUNT(*) FROM "ComentariosProfesor" WHERE "HistoriaClinicaID" = 802`,
		"RespuestasComentarios": `SELECT COUNT(*) FROM "RespuestasComentarios" WHERE "ComentarioID" = 9001`,
		"Imagenes":              `SELECT COUNT(*) FROM "Imagenes" WHERE "HistoriaClinicaID" = 802`,
	}
	for tabla, sql := range conteos {
		var total int
		if err := poolServicios.QueryRow(ctx, sql).Scan(&total); err != nil {
			t.Fatal(err)
		}
		if total != 0 {
			t.Errorf("%s: quedaron %d filas tras el borrado", tabla, total)
		}
	}

	if _, err := os.Stat(ruta); !os.IsNotExist(err) {
		t.Errorf("el archivo de imagen sigue en disco: %v", err)
	}
}
