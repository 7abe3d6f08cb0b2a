package dto

import (
	"encoding/json"
	"testing"
)

func TestAsignarProyectaCadaClave(t *testing.T) {
	claves := []string{
		"interrogatorio", "agudezaVisual", "lensometria", "alineacionOcular",
		"motilidad", "exploracionFisica", "viaPupilar", "estadoRefractivo",
		"subjetivoCerca", "binocularidad", "forias", "vergencias",
		"metodoGrafico", "gridAmsler", "tonometria", "paquimetria",
		"campimetria", "biomicroscopia", "oftalmoscopia", "diagnostico",
		"planTratamiento", "pronostico", "recomendaciones", "recetaFinal",
	}

	var resp SeccionesRespuesta
	for _, clave := range claves {
		datos := []byte(`{}`)
		if clave == "agudezaVisual" {
			datos = []byte(`[]`)
		}
		if err := resp.Asignar(clave, datos); err != nil {
			t.Errorf("Asignar(%s): %v", clave, err)
		}
	}

	if resp.Interrogatorio == nil || resp.RecetaFinal == nil {
		t.Error("Asignar no materializó la variante tipada")
	}
}

func TestAsignarClaveDesconocida(t *testing.T) {
	var resp SeccionesRespuesta
	if err := resp.Asignar("refraccion", []byte(`{}`)); err == nil {
		t.Error("Asignar aceptó una clave fuera del catálogo")
	}
}

func TestAsignarPreservaValores(t *testing.T) {
	var resp SeccionesRespuesta

	err := resp.Asignar("tonometria", []byte(`{
		"fecha": "2025-03-14",
		"hora": "10:30",
		"ojoDerecho": 15.5,
		"tipoTonometriaID": 3
	}`))
	if err != nil {
		t.Fatalf("Asignar: %v", err)
	}

	tono := resp.Tonometria
	if tono == nil {
		t.Fatal("tonometria nil")
	}
	if tono.Fecha == nil || *tono.Fecha != "2025-03-14" {
		t.Errorf("fecha = %v", tono.Fecha)
	}
	if tono.OjoDerecho == nil || *tono.OjoDerecho != 15.5 {
		t.Errorf("ojoDerecho = %v", tono.OjoDerecho)
	}
	if tono.OjoIzquierdo != nil {
		t.Errorf("ojoIzquierdo debió quedar nil, fue %v", *tono.OjoIzquierdo)
	}
	if tono.TipoTonometriaID == nil || *tono.TipoTonometriaID != 3 {
		t.Errorf("tipoTonometriaID = %v", tono.TipoTonometriaID)
	}
}

func TestAsignarAgudezaVisual(t *testing.T) {
	var resp SeccionesRespuesta

	err := resp.Asignar("agudezaVisual", []byte(`[
		{"tipoMedicion": "SIN_RX_LEJOS", "ojoDerecho": "20/40"},
		{"tipoMedicion": "CON_RX_LEJOS", "ojoDerecho": "20/20"}
	]`))
	if err != nil {
		t.Fatalf("Asignar: %v", err)
	}

	if len(resp.AgudezaVisual) != 2 {
		t.Fatalf("mediciones: %d, esperaba 2", len(resp.AgudezaVisual))
	}
	if *resp.AgudezaVisual[0].TipoMedicion != "SIN_RX_LEJOS" {
		t.Errorf("tipoMedicion[0] = %v", *resp.AgudezaVisual[0].TipoMedicion)
	}
}

func TestSeccionesRespuestaSerializaLas24Claves(t *testing.T) {
	datos, err := json.Marshal(SeccionesRespuesta{AgudezaVisual: []AgudezaVisual{}})
	if err != nil {
		t.Fatal(err)
	}

	var mapa map[string]json.RawMessage
	if err := json.Unmarshal(datos, &mapa); err != nil {
		t.Fatal(err)
	}

	if len(mapa) != 24 {
		t.Fatalf("la respuesta serializa %d claves, esperaba 24", len(mapa))
	}
	if string(mapa["agudezaVisual"]) != "[]" {
		t.Errorf("agudezaVisual vacía = %s, esperaba []", mapa["agudezaVisual"])
	}
	if string(mapa["diagnostico"]) != "null" {
		t.Errorf("sección no capturada = %s, esperaba null", mapa["diagnostico"])
	}
}
