package secciones

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pruebas contra PostgreSQL real, activadas con TEST_DATABASE_URL.
// Las 24 tablas de sección se generan desde el registro mismo, en un
// esquema propio para no chocar con otras suites.

var pool *pgxpool.Pool

const esquemaPruebas = "secciones_test"

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
	cfg.ConnConfig.RuntimeParams["search_path"] = esquemaPruebas

	pool, err = pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		os.Exit(1)
	}

	setup := []string{
		fmt.Sprintf(`DROP SCHEMA IF EXISTS %s CASCADE`, esquemaPruebas),
		fmt.Sprintf(`CREATE SCHEMA %s`, esquemaPruebas),
	}
	for _, def := range Todas() {
		setup = append(setup, ddlSeccion(def))
	}
	for _, sql := range setup {
		if _, err := pool.Exec(ctx, sql); err != nil {
			fmt.Printf("setup de tablas de sección: %v\n", err)
			os.Exit(1)
		}
	}

	codigo := m.Run()
	pool.Close()
	os.Exit(codigo)
}

// ddlSeccion deriva la tabla de una sección del propio registro: la
// misma fuente que arma los INSERT define el esquema de prueba
func ddlSeccion(def Definicion) string {
	columnas := []string{
		citar(def.Tabla+"ID") + " BIGSERIAL PRIMARY KEY",
		citar(ColumnaFK) + " BIGINT NOT NULL",
	}
	if def.Cardinalidad == Una {
		columnas[1] += " UNIQUE"
	}
	for _, campo := range def.Campos {
		columnas = append(columnas, citar(campo.Columna)+" "+tipoColumnaSQL(campo.Tipo))
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", citar(def.Tabla), strings.Join(columnas, ", "))
}

func tipoColumnaSQL(tipo TipoCampo) string {
	switch tipo {
	case Numero:
		return "DOUBLE PRECISION"
	case Entero:
		return "BIGINT"
	case Booleano:
		return "BOOLEAN"
	case Fecha:
		return "DATE"
	default:
		// Texto y Hora se almacenan como texto en el esquema heredado
		return "TEXT"
	}
}

func requierePostgres(t *testing.T) {
	t.Helper()
	if pool == nil {
		t.Skip("TEST_DATABASE_URL no definida")
	}
}

func TestUpsertActualizaSinDuplicar(t *testing.T) {
	requierePostgres(t)
	ctx := context.Background()

	def, err := Buscar("diagnostico")
	if err != nil {
		t.Fatal(err)
	}
	sql := SQLUpsert(def)

	primero := Valores(def, 1001, map[string]interface{}{
		"refractivo": "miopía",
	})
	if _, err := pool.Exec(ctx, sql, primero...); err != nil {
		t.Fatalf("primer upsert: %v", err)
	}

	segundo := Valores(def, 1001, map[string]interface{}{
		"refractivo":    "miopía con astigmatismo",
		"observaciones": "revisar en 6 meses",
	})
	if _, err := pool.Exec(ctx, sql, segundo...); err != nil {
		t.Fatalf("segundo upsert: %v", err)
	}

	var total int
	if err := pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM "Diagnostico" WHERE "HistoriaClinicaID" = $1`, 1001,
	).Scan(&total); err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Fatalf("filas: %d, el upsert debió mantener una sola", total)
	}

	var refractivo string
	if err := pool.QueryRow(ctx,
		`SELECT "Refractivo" FROM "Diagnostico" WHERE "HistoriaClinicaID" = $1`, 1001,
	).Scan(&refractivo); err != nil {
		t.Fatal(err)
	}
	if refractivo != "miopía con astigmatismo" {
		t.Errorf("refractivo = %q", refractivo)
	}
}

func TestLecturaDeVariasFilasEnOrden(t *testing.T) {
	requierePostgres(t)
	ctx := context.Background()

	def, err := Buscar("agudezaVisual")
	if err != nil {
		t.Fatal(err)
	}

	insert := SQLInsert(def)
	mediciones := []map[string]interface{}{
		{"tipoMedicion": "SIN_RX_LEJOS", "ojoDerecho": "20/40"},
		{"tipoMedicion": "CON_RX_LEJOS", "ojoDerecho": "20/20"},
	}
	for _, medicion := range mediciones {
		if _, err := pool.Exec(ctx, insert, Valores(def, 2002, medicion)...); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	rows, err := pool.Query(ctx, SQLSelect(def), 2002)
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()

	filas := []map[string]interface{}{}
	for rows.Next() {
		valores, err := rows.Values()
		if err != nil {
			t.Fatal(err)
		}
		filas = append(filas, Normalizar(def, valores))
	}
	if err := rows.Err(); err != nil {
		t.Fatal(err)
	}

	if len(filas) != 2 {
		t.Fatalf("filas: %d, esperaba 2", len(filas))
	}
	if filas[0]["tipoMedicion"] != "SIN_RX_LEJOS" || filas[1]["tipoMedicion"] != "CON_RX_LEJOS" {
		t.Errorf("orden de lectura inestable: %v, %v", filas[0]["tipoMedicion"], filas[1]["tipoMedicion"])
	}
	if filas[0]["ojoDerecho"] != "20/40" {
		t.Errorf("columna OD no volvió como ojoDerecho: %v", filas[0])
	}
}

func TestReemplazoCompletoDeAgudeza(t *testing.T) {
	requierePostgres(t)
	ctx := context.Background()

	def, err := Buscar("agudezaVisual")
	if err != nil {
		t.Fatal(err)
	}

	insert := SQLInsert(def)
	if _, err := pool.Exec(ctx, insert, Valores(def, 3003, map[string]interface{}{
		"tipoMedicion": "SIN_RX_LEJOS",
	})...); err != nil {
		t.Fatal(err)
	}

	// Borrar e insertar el juego nuevo, como hace la edición
	if _, err := pool.Exec(ctx, SQLDelete(def), 3003); err != nil {
		t.Fatal(err)
	}
	nuevas := []string{"CON_RX_LEJOS", "CON_RX_CERCA", "CAPACIDAD_VISUAL"}
	for _, tipo := range nuevas {
		if _, err := pool.Exec(ctx, insert, Valores(def, 3003, map[string]interface{}{
			"tipoMedicion": tipo,
		})...); err != nil {
			t.Fatal(err)
		}
	}

	var total int
	if err := pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM "AgudezaVisual" WHERE "HistoriaClinicaID" = $1`, 3003,
	).Scan(&total); err != nil {
		t.Fatal(err)
	}
	if total != len(nuevas) {
		t.Fatalf("filas tras reemplazo: %d, esperaba %d", total, len(nuevas))
	}
}

// Escritura y lectura de las 24 secciones: cada campo wire debe volver
// con su nombre camelCase y su tipo de contrato, sin importar cómo se
// llame o tipe la columna legada de respaldo.
func TestRoundTripDeTodasLasSecciones(t *testing.T) {
	requierePostgres(t)
	ctx := context.Background()

	for i, def := range Todas() {
		historiaID := int64(9000 + i)

		payload := map[string]interface{}{}
		esperado := map[string]interface{}{}
		for _, campo := range def.Campos {
			switch campo.Tipo {
			case Texto:
				payload[campo.Wire] = "valor " + campo.Wire
				esperado[campo.Wire] = "valor " + campo.Wire
			case Numero:
				payload[campo.Wire] = 1.5
				esperado[campo.Wire] = 1.5
			case Entero:
				// Los números JSON llegan como float64
				payload[campo.Wire] = float64(7)
				esperado[campo.Wire] = int64(7)
			case Booleano:
				payload[campo.Wire] = true
				esperado[campo.Wire] = true
			case Fecha:
				payload[campo.Wire] = "2024-05-01"
				esperado[campo.Wire] = "2024-05-01"
			case Hora:
				payload[campo.Wire] = "10:30"
				esperado[campo.Wire] = "10:30"
			}
		}

		escritura := SQLUpsert(&def)
		if def.Cardinalidad == Varias {
			escritura = SQLInsert(&def)
		}
		if _, err := pool.Exec(ctx, escritura, Valores(&def, historiaID, payload)...); err != nil {
			t.Fatalf("%s: escritura: %v", def.Clave, err)
		}

		rows, err := pool.Query(ctx, SQLSelect(&def), historiaID)
		if err != nil {
			t.Fatalf("%s: lectura: %v", def.Clave, err)
		}
		filas := []map[string]interface{}{}
		for rows.Next() {
			valores, err := rows.Values()
			if err != nil {
				rows.Close()
				t.Fatalf("%s: valores: %v", def.Clave, err)
			}
			filas = append(filas, Normalizar(&def, valores))
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			t.Fatalf("%s: filas: %v", def.Clave, err)
		}

		if len(filas) != 1 {
			t.Fatalf("%s: filas leídas: %d, esperaba 1", def.Clave, len(filas))
		}
		for wire, valor := range esperado {
			if filas[0][wire] != valor {
				t.Errorf("%s.%s = %v (%T), esperaba %v (%T)",
					def.Clave, wire, filas[0][wire], filas[0][wire], valor, valor)
			}
		}
	}
}
