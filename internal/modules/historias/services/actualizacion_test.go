package services

import (
	"encoding/json"
	"testing"

	"optometria-core/internal/modules/historias/dto"
)

func TestResolverPartesSeccionEditable(t *testing.T) {
	cuerpo := json.RawMessage(`{"refractivo":"miopía leve","sensorial":null}`)

	partes, err := resolverPartes("diagnostico", cuerpo)
	if err != nil {
		t.Fatalf("resolverPartes: %v", err)
	}
	if len(partes) != 1 {
		t.Fatalf("partes: %d, esperaba 1", len(partes))
	}
	if partes[0].def.Clave != "diagnostico" {
		t.Errorf("clave = %s", partes[0].def.Clave)
	}

	payload, ok := partes[0].payload.(map[string]interface{})
	if !ok {
		t.Fatalf("payload %T, esperaba objeto", partes[0].payload)
	}
	if payload["refractivo"] != "miopía leve" {
		t.Errorf("refractivo = %v", payload["refractivo"])
	}
}

func TestResolverPartesAgudezaVisualEsArreglo(t *testing.T) {
	cuerpo := json.RawMessage(`[
		{"tipoMedicion":"SIN_RX_LEJOS","ojoDerecho":"20/40"},
		{"tipoMedicion":"CON_RX_LEJOS","ojoDerecho":"20/20"}
	]`)

	partes, err := resolverPartes("agudezaVisual", cuerpo)
	if err != nil {
		t.Fatalf("resolverPartes: %v", err)
	}

	filas, ok := partes[0].payload.([]map[string]interface{})
	if !ok {
		t.Fatalf("payload %T, esperaba arreglo de objetos", partes[0].payload)
	}
	if len(filas) != 2 {
		t.Fatalf("filas: %d, esperaba 2", len(filas))
	}

	// Un objeto donde la sección espera arreglo es error de validación
	if _, err := resolverPartes("agudezaVisual", json.RawMessage(`{"ojoDerecho":"20/20"}`)); !EsTipo(err, TipoValidacion) {
		t.Errorf("objeto en agudezaVisual debió dar validation, dio %v", err)
	}
}

func TestResolverPartesCompuesta(t *testing.T) {
	cuerpo := json.RawMessage(`{
		"forias": {"foriaLejos": "orto"},
		"vergencias": {"reservaFusionalPositivaLejos": "12/18/10"}
	}`)

	partes, err := resolverPartes("binocularidad", cuerpo)
	if err != nil {
		t.Fatalf("resolverPartes: %v", err)
	}
	if len(partes) != 2 {
		t.Fatalf("partes: %d, esperaba 2 (solo las sub-secciones presentes)", len(partes))
	}

	// El orden sigue al grupo: forias antes que vergencias
	if partes[0].def.Clave != "forias" || partes[1].def.Clave != "vergencias" {
		t.Errorf("orden de partes: %s, %s", partes[0].def.Clave, partes[1].def.Clave)
	}
}

func TestResolverPartesCompuestaVacia(t *testing.T) {
	if _, err := resolverPartes("deteccion-alteraciones", json.RawMessage(`{}`)); !EsTipo(err, TipoValidacion) {
		t.Errorf("grupo sin sub-secciones debió dar validation, dio %v", err)
	}
}

func TestResolverPartesClaveDesconocida(t *testing.T) {
	// Clave totalmente desconocida y sección real pero no editable directa
	for _, clave := range []string{"refraccion", "forias", "tonometria"} {
		if _, err := resolverPartes(clave, json.RawMessage(`{}`)); !EsTipo(err, TipoSeccionDesconocida) {
			t.Errorf("clave %q debió dar unknown_section, dio %v", clave, err)
		}
	}
}

func TestSeccionesAMapaSoloIncluyeLasPresentes(t *testing.T) {
	motivo := "visión borrosa"
	tipo := "SIN_RX_LEJOS"

	entrada := dto.SeccionesInput{
		Interrogatorio: &dto.Interrogatorio{MotivoConsulta: &motivo},
		AgudezaVisual:  []dto.AgudezaVisual{{TipoMedicion: &tipo}},
	}

	mapa, err := seccionesAMapa(&entrada)
	if err != nil {
		t.Fatalf("seccionesAMapa: %v", err)
	}

	if len(mapa) != 2 {
		t.Fatalf("mapa con %d claves, esperaba 2: %v", len(mapa), mapa)
	}
	if _, presente := mapa["interrogatorio"]; !presente {
		t.Error("interrogatorio ausente del mapa")
	}
	if _, presente := mapa["diagnostico"]; presente {
		t.Error("sección no enviada presente en el mapa")
	}

	filas, ok := mapa["agudezaVisual"].([]interface{})
	if !ok || len(filas) != 1 {
		t.Fatalf("agudezaVisual = %v", mapa["agudezaVisual"])
	}
}
