package secciones

import (
	"strings"
	"testing"
	"time"
)

func definicionDe(t *testing.T, clave string) *Definicion {
	t.Helper()
	def, err := Buscar(clave)
	if err != nil {
		t.Fatalf("sección %s: %v", clave, err)
	}
	return def
}

func TestSQLUpsertEsAtomico(t *testing.T) {
	sql := SQLUpsert(definicionDe(t, "motilidad"))

	fragmentos := []string{
		`INSERT INTO "Motilidad"`,
		`"HistoriaClinicaID"`,
		`"Persecucion"`,
		`ON CONFLICT ("HistoriaClinicaID") DO UPDATE SET`,
		`"Ducciones" = EXCLUDED."Ducciones"`,
	}
	for _, fragmento := range fragmentos {
		if !strings.Contains(sql, fragmento) {
			t.Errorf("upsert sin %q:\n%s", fragmento, sql)
		}
	}

	// 1 FK + 4 campos
	if !strings.Contains(sql, "$5") || strings.Contains(sql, "$6") {
		t.Errorf("marcadores incorrectos:\n%s", sql)
	}
}

func TestSQLInsertSinConflicto(t *testing.T) {
	sql := SQLInsert(definicionDe(t, "agudezaVisual"))

	if strings.Contains(sql, "ON CONFLICT") {
		t.Errorf("insert de varias filas no debe llevar ON CONFLICT:\n%s", sql)
	}
	if !strings.Contains(sql, `"TipoMedicion"`) || !strings.Contains(sql, `"OD"`) {
		t.Errorf("columnas faltantes:\n%s", sql)
	}
}

func TestSQLSelectOrdenaLasVariasFilas(t *testing.T) {
	conOrden := SQLSelect(definicionDe(t, "agudezaVisual"))
	if !strings.Contains(conOrden, `ORDER BY "AgudezaVisualID" ASC`) {
		t.Errorf("lectura de agudezaVisual sin orden estable:\n%s", conOrden)
	}

	sinOrden := SQLSelect(definicionDe(t, "diagnostico"))
	if strings.Contains(sinOrden, "ORDER BY") {
		t.Errorf("sección unitaria con ORDER BY:\n%s", sinOrden)
	}
}

func TestSQLUpsertCampoNoTocaElResto(t *testing.T) {
	def := definicionDe(t, "oftalmoscopia")
	sql := SQLUpsertCampo(def, "ImagenODID")

	if !strings.Contains(sql, `DO UPDATE SET "ImagenODID" = EXCLUDED."ImagenODID"`) {
		t.Errorf("upsert de campo mal construido:\n%s", sql)
	}
	if strings.Contains(sql, `"PapilaOD"`) {
		t.Errorf("upsert de campo arrastra otras columnas:\n%s", sql)
	}
}

func TestValoresCoercion(t *testing.T) {
	def := definicionDe(t, "lensometria")

	payload := map[string]interface{}{
		"esferaOD": -1.25,
		"ejeOD":    float64(180), // JSON decodifica números como float64
		"adicion":  "",           // vacío => NULL
		// cilindroOD ausente => NULL
	}

	args := Valores(def, 77, payload)
	if len(args) != len(def.Campos)+1 {
		t.Fatalf("args: %d, esperaba %d", len(args), len(def.Campos)+1)
	}

	if args[0] != int64(77) {
		t.Errorf("FK = %v, esperaba 77", args[0])
	}
	if args[1] != -1.25 {
		t.Errorf("esferaOD = %v", args[1])
	}
	if args[2] != nil {
		t.Errorf("cilindroOD ausente debió ser nil, fue %v", args[2])
	}
	if eje, ok := args[3].(int64); !ok || eje != 180 {
		t.Errorf("ejeOD = %v (%T), esperaba int64 180", args[3], args[3])
	}
	if args[7] != nil {
		t.Errorf("adicion vacía debió ser nil, fue %v", args[7])
	}
}

func TestNormalizarFilaALContratoWire(t *testing.T) {
	def := definicionDe(t, "tonometria")

	fecha := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	valores := []interface{}{fecha, "10:30", 15.5, 16.0, int32(3)}

	fila := Normalizar(def, valores)

	if fila["fecha"] != "2025-03-14" {
		t.Errorf("fecha = %v, esperaba 2025-03-14", fila["fecha"])
	}
	if fila["hora"] != "10:30" {
		t.Errorf("hora = %v", fila["hora"])
	}
	if fila["ojoDerecho"] != 15.5 {
		t.Errorf("ojoDerecho = %v", fila["ojoDerecho"])
	}
	if tipo, ok := fila["tipoTonometriaID"].(int64); !ok || tipo != 3 {
		t.Errorf("tipoTonometriaID = %v (%T)", fila["tipoTonometriaID"], fila["tipoTonometriaID"])
	}

	// Solo claves wire, ninguna columna legada
	if _, presente := fila["TipoID"]; presente {
		t.Error("la fila normalizada expone la columna legada TipoID")
	}
}

func TestNormalizarFilaCorta(t *testing.T) {
	def := definicionDe(t, "forias")

	fila := Normalizar(def, []interface{}{"2 endo"})
	if fila["foriaLejos"] != "2 endo" {
		t.Errorf("foriaLejos = %v", fila["foriaLejos"])
	}
	if fila["observaciones"] != nil {
		t.Errorf("campo sin valor debió ser nil, fue %v", fila["observaciones"])
	}
}
