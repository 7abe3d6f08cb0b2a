package secciones

import (
	"testing"
)

func TestCatalogoCompleto(t *testing.T) {
	todas := Todas()
	if len(todas) != Total {
		t.Fatalf("catálogo con %d secciones, esperaba %d", len(todas), Total)
	}

	vistas := map[string]bool{}
	for _, def := range todas {
		if def.Clave == "" || def.Tabla == "" {
			t.Errorf("definición incompleta: %+v", def)
		}
		if vistas[def.Clave] {
			t.Errorf("clave duplicada: %s", def.Clave)
		}
		vistas[def.Clave] = true

		if len(def.Campos) == 0 {
			t.Errorf("sección %s sin campos", def.Clave)
		}
	}
}

func TestAgudezaVisualEsLaUnicaDeVariasFilas(t *testing.T) {
	for _, def := range Todas() {
		esVarias := def.Cardinalidad == Varias
		if esVarias != (def.Clave == "agudezaVisual") {
			t.Errorf("cardinalidad inesperada en %s", def.Clave)
		}
	}

	def, err := Buscar("agudezaVisual")
	if err != nil {
		t.Fatalf("agudezaVisual no encontrada: %v", err)
	}
	if def.OrdenLectura != "AgudezaVisualID" {
		t.Errorf("orden de lectura %q, esperaba AgudezaVisualID", def.OrdenLectura)
	}
}

func TestBuscarClaveDesconocida(t *testing.T) {
	claves := []string{"", "refraccion", "Interrogatorio", "deteccion-alteraciones"}
	for _, clave := range claves {
		if _, err := Buscar(clave); err == nil {
			t.Errorf("Buscar(%q) debió fallar", clave)
		}
	}
}

func TestEditablesSonSieteYExisten(t *testing.T) {
	esperadas := []string{
		"interrogatorio", "agudezaVisual", "lensometria",
		"diagnostico", "planTratamiento", "pronostico", "recetaFinal",
	}
	if len(Editables) != len(esperadas) {
		t.Fatalf("editables: %d, esperaba %d", len(Editables), len(esperadas))
	}
	for _, clave := range esperadas {
		if !Editables[clave] {
			t.Errorf("sección editable faltante: %s", clave)
		}
		if _, err := Buscar(clave); err != nil {
			t.Errorf("editable %s fuera del catálogo", clave)
		}
	}
}

func TestCompuestasResuelvenASeccionesReales(t *testing.T) {
	binocularidad := Compuestas["binocularidad"]
	if len(binocularidad) != 4 {
		t.Fatalf("binocularidad agrupa %d secciones, esperaba 4", len(binocularidad))
	}

	deteccion := Compuestas["deteccion-alteraciones"]
	if len(deteccion) != 6 {
		t.Fatalf("deteccion-alteraciones agrupa %d secciones, esperaba 6", len(deteccion))
	}

	for grupo, subclaves := range Compuestas {
		for _, subclave := range subclaves {
			if _, err := Buscar(subclave); err != nil {
				t.Errorf("grupo %s refiere sección inexistente %s", grupo, subclave)
			}
		}
	}
}

// Las columnas legadas no siguen una transformación uniforme del nombre
// wire; estos pares son el contrato con el esquema heredado.
func TestColumnasLegadas(t *testing.T) {
	casos := []struct {
		clave   string
		wire    string
		columna string
	}{
		{"agudezaVisual", "ojoDerecho", "OD"},
		{"agudezaVisual", "ambosOjos", "AO"},
		{"lensometria", "adicion", "ADD"},
		{"motilidad", "seguimiento", "Persecucion"},
		{"viaPupilar", "defectoPupilarAferente", "DPA"},
		{"estadoRefractivo", "retinoscopiaEsferaOD", "RetEsfOD"},
		{"subjetivoCerca", "adicionOD", "AddOD"},
		{"binocularidad", "puntoProximoConvergencia", "PPC"},
		{"binocularidad", "acomodacionRelativaNegativa", "ARN"},
		{"vergencias", "reservaFusionalPositivaLejos", "RFPLejos"},
		{"tonometria", "tipoTonometriaID", "TipoID"},
		{"tonometria", "ojoDerecho", "OjoDerecho"},
		{"paquimetria", "ojoDerecho", "OD"},
		{"oftalmoscopia", "imagenOjoDerechoID", "ImagenODID"},
		{"oftalmoscopia", "imagenOjoIzquierdoID", "ImagenOIID"},
		{"recetaFinal", "distanciaInterpupilar", "DIP"},
	}

	for _, caso := range casos {
		def, err := Buscar(caso.clave)
		if err != nil {
			t.Fatalf("sección %s: %v", caso.clave, err)
		}
		columna, ok := def.ColumnaDe(caso.wire)
		if !ok {
			t.Errorf("%s.%s sin columna", caso.clave, caso.wire)
			continue
		}
		if columna != caso.columna {
			t.Errorf("%s.%s => %s, esperaba %s", caso.clave, caso.wire, columna, caso.columna)
		}
	}
}

func TestColumnaDeCampoInexistente(t *testing.T) {
	def, err := Buscar("forias")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := def.ColumnaDe("noExiste"); ok {
		t.Error("ColumnaDe aceptó un campo inexistente")
	}
}

func TestTiposMedicionAgudeza(t *testing.T) {
	esperados := []string{
		"SIN_RX_LEJOS", "CON_RX_LEJOS", "SIN_RX_CERCA", "CON_RX_CERCA", "CAPACIDAD_VISUAL",
	}
	if len(TiposMedicionAgudeza) != len(esperados) {
		t.Fatalf("tipos de medición: %d, esperaba %d", len(TiposMedicionAgudeza), len(esperados))
	}
	for i, tipo := range esperados {
		if TiposMedicionAgudeza[i] != tipo {
			t.Errorf("tipo[%d] = %s, esperaba %s", i, TiposMedicionAgudeza[i], tipo)
		}
	}
}
