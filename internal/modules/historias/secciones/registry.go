package secciones

import (
	"fmt"
)

// Registro estático de las 24 secciones de una historia clínica.
// Cada sección se respalda en exactamente una tabla heredada (PascalCase,
// con columnas abreviadas o con nombres legados en varias tablas), por lo
// que la traducción wire ↔ columna se declara campo por campo y NO es una
// transformación uniforme.

// Cardinalidad de una sección respecto a su historia
type Cardinalidad int

const (
	// Una sola fila por historia
	Una Cardinalidad = iota
	// Varias filas por historia (solo agudezaVisual)
	Varias
)

// TipoCampo guía la coerción de valores JSON hacia los tipos de columna
type TipoCampo int

const (
	Texto TipoCampo = iota
	Numero
	Entero
	Booleano
	Fecha
	Hora
)

// Campo es la tupla (campo wire, columna de almacenamiento, tipo)
type Campo struct {
	Wire    string
	Columna string
	Tipo    TipoCampo
}

// Definicion describe la tabla de respaldo de una sección
type Definicion struct {
	Clave        string
	Tabla        string
	Cardinalidad Cardinalidad
	// OrdenLectura: columna de orden para secciones con varias filas
	OrdenLectura string
	Campos       []Campo
}

// ColumnaFK es la llave foránea hacia la historia en todas las tablas de sección
const ColumnaFK = "HistoriaClinicaID"

// ErrorSeccionDesconocida se retorna para claves fuera del catálogo fijo
type ErrorSeccionDesconocida struct {
	Clave string
}

func (e *ErrorSeccionDesconocida) Error() string {
	return fmt.Sprintf("sección desconocida: %s", e.Clave)
}

// TiposMedicionAgudeza es la enumeración fija de mediciones de agudeza visual
var TiposMedicionAgudeza = []string{
	"SIN_RX_LEJOS",
	"CON_RX_LEJOS",
	"SIN_RX_CERCA",
	"CON_RX_CERCA",
	"CAPACIDAD_VISUAL",
}

// catalogo define las 24 secciones en el orden canónico de la historia.
// Los pares wire/columna preservan los nombres legados de cada tabla
// (abreviaturas OD/OI/AO, columnas ADD/DIP, Persecucion, etc.).
var catalogo = []Definicion{
	{
		Clave: "interrogatorio", Tabla: "Interrogatorio", Cardinalidad: Una,
		Campos: []Campo{
			{"motivoConsulta", "MotivoConsulta", Texto},
			{"antecedentesHeredofamiliares", "AntecedentesHeredofamiliares", Texto},
			{"antecedentesPersonalesPatologicos", "AntecedentesPersonalesPatologicos", Texto},
			{"antecedentesPersonalesNoPatologicos", "AntecedentesPersonalesNoPatologicos", Texto},
			{"antecedentesVisuales", "AntecedentesVisuales", Texto},
			{"ultimoExamenVisual", "UltimoExamenVisual", Texto},
			{"sintomasActuales", "SintomasActuales", Texto},
		},
	},
	{
		Clave: "agudezaVisual", Tabla: "AgudezaVisual", Cardinalidad: Varias,
		OrdenLectura: "AgudezaVisualID",
		Campos: []Campo{
			{"tipoMedicion", "TipoMedicion", Texto},
			{"ojoDerecho", "OD", Texto},
			{"ojoIzquierdo", "OI", Texto},
			{"ambosOjos", "AO", Texto},
			{"observaciones", "Observaciones", Texto},
		},
	},
	{
		Clave: "lensometria", Tabla: "Lensometria", Cardinalidad: Una,
		Campos: []Campo{
			{"esferaOD", "EsferaOD", Numero},
			{"cilindroOD", "CilindroOD", Numero},
			{"ejeOD", "EjeOD", Entero},
			{"esferaOI", "EsferaOI", Numero},
			{"cilindroOI", "CilindroOI", Numero},
			{"ejeOI", "EjeOI", Entero},
			{"adicion", "ADD", Numero},
			{"tipoBifocalID", "TipoBifocalID", Entero},
			{"materialID", "MaterialID", Entero},
		},
	},
	{
		Clave: "alineacionOcular", Tabla: "AlineacionOcular", Cardinalidad: Una,
		Campos: []Campo{
			{"lejos", "Lejos", Texto},
			{"cerca", "Cerca", Texto},
			{"metodo", "Metodo", Texto},
			{"observaciones", "Observaciones", Texto},
		},
	},
	{
		Clave: "motilidad", Tabla: "Motilidad", Cardinalidad: Una,
		Campos: []Campo{
			{"ducciones", "Ducciones", Texto},
			{"versiones", "Versiones", Texto},
			{"sacadicos", "Sacadicos", Texto},
			// Columna legada: el seguimiento se guardó como "Persecucion"
			{"seguimiento", "Persecucion", Texto},
		},
	},
	{
		Clave: "exploracionFisica", Tabla: "ExploracionFisica", Cardinalidad: Una,
		Campos: []Campo{
			{"anexos", "Anexos", Texto},
			{"segmentoAnterior", "SegmentoAnterior", Texto},
			{"diametroPupilarOD", "DiametroPupilarOD", Numero},
			{"diametroPupilarOI", "DiametroPupilarOI", Numero},
			{"observaciones", "Observaciones", Texto},
		},
	},
	{
		Clave: "viaPupilar", Tabla: "ViaPupilar", Cardinalidad: Una,
		Campos: []Campo{
			{"fotomotor", "Fotomotor", Texto},
			{"consensual", "Consensual", Texto},
			{"acomodativo", "Acomodativo", Texto},
			// Columna legada abreviada: defecto pupilar aferente
			{"defectoPupilarAferente", "DPA", Texto},
		},
	},
	{
		Clave: "estadoRefractivo", Tabla: "EstadoRefractivo", Cardinalidad: Una,
		Campos: []Campo{
			{"retinoscopiaEsferaOD", "RetEsfOD", Numero},
			{"retinoscopiaCilindroOD", "RetCilOD", Numero},
			{"retinoscopiaEjeOD", "RetEjeOD", Entero},
			{"retinoscopiaEsferaOI", "RetEsfOI", Numero},
			{"retinoscopiaCilindroOI", "RetCilOI", Numero},
			{"retinoscopiaEjeOI", "RetEjeOI", Entero},
			{"subjetivoEsferaOD", "SubEsfOD", Numero},
			{"subjetivoCilindroOD", "SubCilOD", Numero},
			{"subjetivoEjeOD", "SubEjeOD", Entero},
			{"subjetivoEsferaOI", "SubEsfOI", Numero},
			{"subjetivoCilindroOI", "SubCilOI", Numero},
			{"subjetivoEjeOI", "SubEjeOI", Entero},
		},
	},
	{
		Clave: "subjetivoCerca", Tabla: "SubjetivoCerca", Cardinalidad: Una,
		Campos: []Campo{
			{"adicionOD", "AddOD", Numero},
			{"adicionOI", "AddOI", Numero},
			{"distanciaTrabajo", "DistanciaTrabajo", Numero},
			{"amplitudAcomodacion", "AmplitudAcomodacion", Numero},
		},
	},
	{
		Clave: "binocularidad", Tabla: "Binocularidad", Cardinalidad: Una,
		Campos: []Campo{
			{"puntoProximoConvergencia", "PPC", Texto},
			{"acomodacionRelativaNegativa", "ARN", Texto},
			{"acomodacionRelativaPositiva", "ARP", Texto},
			{"flexibilidadAcomodativa", "FlexAcomodativa", Texto},
			{"estereopsis", "Estereopsis", Texto},
		},
	},
	{
		Clave: "forias", Tabla: "Forias", Cardinalidad: Una,
		Campos: []Campo{
			{"foriaLejos", "ForiaLejos", Texto},
			{"foriaCerca", "ForiaCerca", Texto},
			{"metodoMedicionID", "MetodoMedicionID", Entero},
			{"observaciones", "Observaciones", Texto},
		},
	},
	{
		Clave: "vergencias", Tabla: "Vergencias", Cardinalidad: Una,
		Campos: []Campo{
			{"reservaFusionalPositivaLejos", "RFPLejos", Texto},
			{"reservaFusionalNegativaLejos", "RFNLejos", Texto},
			{"reservaFusionalPositivaCerca", "RFPCerca", Texto},
			{"reservaFusionalNegativaCerca", "RFNCerca", Texto},
		},
	},
	{
		Clave: "metodoGrafico", Tabla: "MetodoGrafico", Cardinalidad: Una,
		Campos: []Campo{
			{"integracionBinocular", "IntegracionBinocular", Texto},
			{"tipoIntegracionID", "TipoIntegracionID", Entero},
			{"amplitudFusional", "AmplitudFusional", Texto},
			{"imagenID", "ImagenID", Entero},
		},
	},
	{
		Clave: "gridAmsler", Tabla: "GridAmsler", Cardinalidad: Una,
		Campos: []Campo{
			{"ojoDerecho", "OjoDerecho", Texto},
			{"ojoIzquierdo", "OjoIzquierdo", Texto},
			{"observaciones", "Observaciones", Texto},
		},
	},
	{
		Clave: "tonometria", Tabla: "Tonometria", Cardinalidad: Una,
		Campos: []Campo{
			// Tabla legada con columnas capitalizadas que el resto del
			// esquema no sigue; en el wire salen en camelCase
			{"fecha", "Fecha", Fecha},
			{"hora", "Hora", Hora},
			{"ojoDerecho", "OjoDerecho", Numero},
			{"ojoIzquierdo", "OjoIzquierdo", Numero},
			{"tipoTonometriaID", "TipoID", Entero},
		},
	},
	{
		Clave: "paquimetria", Tabla: "Paquimetria", Cardinalidad: Una,
		Campos: []Campo{
			{"ojoDerecho", "OD", Numero},
			{"ojoIzquierdo", "OI", Numero},
			{"fecha", "Fecha", Fecha},
			{"hora", "Hora", Hora},
		},
	},
	{
		Clave: "campimetria", Tabla: "Campimetria", Cardinalidad: Una,
		Campos: []Campo{
			{"distancia", "Distancia", Texto},
			{"tamanoIndice", "TamanoIndice", Texto},
			{"tamanoEstimulo", "TamanoEstimulo", Texto},
			{"imagenID", "ImagenID", Entero},
		},
	},
	{
		Clave: "biomicroscopia", Tabla: "Biomicroscopia", Cardinalidad: Una,
		Campos: []Campo{
			{"parpados", "Parpados", Texto},
			{"conjuntiva", "Conjuntiva", Texto},
			{"cornea", "Cornea", Texto},
			{"camaraAnterior", "CamaraAnterior", Texto},
			{"iris", "Iris", Texto},
			{"cristalino", "Cristalino", Texto},
			{"observaciones", "Observaciones", Texto},
		},
	},
	{
		Clave: "oftalmoscopia", Tabla: "Oftalmoscopia", Cardinalidad: Una,
		Campos: []Campo{
			{"papilaOD", "PapilaOD", Texto},
			{"papilaOI", "PapilaOI", Texto},
			{"excavacionOD", "ExcavacionOD", Texto},
			{"excavacionOI", "ExcavacionOI", Texto},
			{"macula", "Macula", Texto},
			{"vasos", "Vasos", Texto},
			{"retinaPeriferica", "RetinaPeriferica", Texto},
			{"imagenOjoDerechoID", "ImagenODID", Entero},
			{"imagenOjoIzquierdoID", "ImagenOIID", Entero},
		},
	},
	{
		Clave: "diagnostico", Tabla: "Diagnostico", Cardinalidad: Una,
		Campos: []Campo{
			{"refractivo", "Refractivo", Texto},
			{"sensorial", "Sensorial", Texto},
			{"patologico", "Patologico", Texto},
			{"observaciones", "Observaciones", Texto},
		},
	},
	{
		Clave: "planTratamiento", Tabla: "PlanTratamiento", Cardinalidad: Una,
		Campos: []Campo{
			{"descripcion", "Descripcion", Texto},
			{"tipoTratamientoID", "TipoTratamientoID", Entero},
			{"tiempoUso", "TiempoUso", Texto},
		},
	},
	{
		Clave: "pronostico", Tabla: "Pronostico", Cardinalidad: Una,
		Campos: []Campo{
			{"visual", "Visual", Texto},
			{"funcional", "Funcional", Texto},
			{"observaciones", "Observaciones", Texto},
		},
	},
	{
		Clave: "recomendaciones", Tabla: "Recomendaciones", Cardinalidad: Una,
		Campos: []Campo{
			{"descripcion", "Descripcion", Texto},
			{"proximaCita", "ProximaCita", Fecha},
		},
	},
	{
		Clave: "recetaFinal", Tabla: "RecetaFinal", Cardinalidad: Una,
		Campos: []Campo{
			{"esferaOD", "EsferaOD", Numero},
			{"cilindroOD", "CilindroOD", Numero},
			{"ejeOD", "EjeOD", Entero},
			{"esferaOI", "EsferaOI", Numero},
			{"cilindroOI", "CilindroOI", Numero},
			{"ejeOI", "EjeOI", Entero},
			{"adicion", "ADD", Numero},
			{"distanciaInterpupilar", "DIP", Numero},
			{"materialID", "MaterialID", Entero},
			{"tratamientoID", "TratamientoID", Entero},
			{"tipoLenteID", "TipoLenteID", Entero},
			{"observaciones", "Observaciones", Texto},
		},
	},
}

// indice por clave, construido una sola vez
var indice = func() map[string]*Definicion {
	m := make(map[string]*Definicion, len(catalogo))
	for i := range catalogo {
		m[catalogo[i].Clave] = &catalogo[i]
	}
	return m
}()

// Editables son las secciones expuestas en el endpoint PATCH directo;
// el resto solo se escribe en la creación completa o vía claves compuestas.
var Editables = map[string]bool{
	"interrogatorio":  true,
	"agudezaVisual":   true,
	"lensometria":     true,
	"diagnostico":     true,
	"planTratamiento": true,
	"pronostico":      true,
	"recetaFinal":     true,
}

// Compuestas mapea las claves compuestas del endpoint PATCH a las
// secciones de respaldo que deben escribirse en una sola transacción.
var Compuestas = map[string][]string{
	"binocularidad": {
		"binocularidad", "forias", "vergencias", "metodoGrafico",
	},
	"deteccion-alteraciones": {
		"gridAmsler", "tonometria", "paquimetria", "campimetria",
		"biomicroscopia", "oftalmoscopia",
	},
}

// Buscar retorna la definición de una sección o ErrorSeccionDesconocida
// para cualquier clave fuera del catálogo fijo. Búsqueda pura, sin efectos.
func Buscar(clave string) (*Definicion, error) {
	def, ok := indice[clave]
	if !ok {
		return nil, &ErrorSeccionDesconocida{Clave: clave}
	}
	return def, nil
}

// Todas retorna las definiciones en el orden canónico
func Todas() []Definicion {
	return catalogo
}

// Total es el número de secciones del catálogo
const Total = 24

// ColumnaDe retorna la columna de almacenamiento de un campo wire
func (d *Definicion) ColumnaDe(wire string) (string, bool) {
	for _, c := range d.Campos {
		if c.Wire == wire {
			return c.Columna, true
		}
	}
	return "", false
}
