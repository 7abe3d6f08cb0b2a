package dto

import (
	"encoding/json"
	"fmt"
)

// Variantes tipadas de las 24 secciones de la historia clínica.
// Los campos son punteros para distinguir "no enviado" de "vacío";
// los nombres json corresponden al contrato wire del registro de secciones.

type Interrogatorio struct {
	MotivoConsulta                      *string `json:"motivoConsulta"`
	AntecedentesHeredofamiliares        *string `json:"antecedentesHeredofamiliares"`
	AntecedentesPersonalesPatologicos   *string `json:"antecedentesPersonalesPatologicos"`
	AntecedentesPersonalesNoPatologicos *string `json:"antecedentesPersonalesNoPatologicos"`
	AntecedentesVisuales                *string `json:"antecedentesVisuales"`
	UltimoExamenVisual                  *string `json:"ultimoExamenVisual"`
	SintomasActuales                    *string `json:"sintomasActuales"`
}

// AgudezaVisual es la única sección de varias filas: una medición por tipo
// (SIN_RX_LEJOS, CON_RX_LEJOS, SIN_RX_CERCA, CON_RX_CERCA, CAPACIDAD_VISUAL)
type AgudezaVisual struct {
	TipoMedicion  *string `json:"tipoMedicion"`
	OjoDerecho    *string `json:"ojoDerecho"`
	OjoIzquierdo  *string `json:"ojoIzquierdo"`
	AmbosOjos     *string `json:"ambosOjos"`
	Observaciones *string `json:"observaciones"`
}

type Lensometria struct {
	EsferaOD      *float64 `json:"esferaOD"`
	CilindroOD    *float64 `json:"cilindroOD"`
	EjeOD         *int64   `json:"ejeOD"`
	EsferaOI      *float64 `json:"esferaOI"`
	CilindroOI    *float64 `json:"cilindroOI"`
	EjeOI         *int64   `json:"ejeOI"`
	Adicion       *float64 `json:"adicion"`
	TipoBifocalID *int64   `json:"tipoBifocalID"`
	MaterialID    *int64   `json:"materialID"`
}

type AlineacionOcular struct {
	Lejos         *string `json:"lejos"`
	Cerca         *string `json:"cerca"`
	Metodo        *string `json:"metodo"`
	Observaciones *string `json:"observaciones"`
}

type Motilidad struct {
	Ducciones   *string `json:"ducciones"`
	Versiones   *string `json:"versiones"`
	Sacadicos   *string `json:"sacadicos"`
	Seguimiento *string `json:"seguimiento"`
}

type ExploracionFisica struct {
	Anexos            *string  `json:"anexos"`
	SegmentoAnterior  *string  `json:"segmentoAnterior"`
	DiametroPupilarOD *float64 `json:"diametroPupilarOD"`
	DiametroPupilarOI *float64 `json:"diametroPupilarOI"`
	Observaciones     *string  `json:"observaciones"`
}

type ViaPupilar struct {
	Fotomotor              *string `json:"fotomotor"`
	Consensual             *string `json:"consensual"`
	Acomodativo            *string `json:"acomodativo"`
	DefectoPupilarAferente *string `json:"defectoPupilarAferente"`
}

type EstadoRefractivo struct {
	RetinoscopiaEsferaOD   *float64 `json:"retinoscopiaEsferaOD"`
	RetinoscopiaCilindroOD *float64 `json:"retinoscopiaCilindroOD"`
	RetinoscopiaEjeOD      *int64   `json:"retinoscopiaEjeOD"`
	RetinoscopiaEsferaOI   *float64 `json:"retinoscopiaEsferaOI"`
	RetinoscopiaCilindroOI *float64 `json:"retinoscopiaCilindroOI"`
	RetinoscopiaEjeOI      *int64   `json:"retinoscopiaEjeOI"`
	SubjetivoEsferaOD      *float64 `json:"subjetivoEsferaOD"`
	SubjetivoCilindroOD    *float64 `json:"subjetivoCilindroOD"`
	SubjetivoEjeOD         *int64   `json:"subjetivoEjeOD"`
	SubjetivoEsferaOI      *float64 `json:"subjetivoEsferaOI"`
	SubjetivoCilindroOI    *float64 `json:"subjetivoCilindroOI"`
	SubjetivoEjeOI         *int64   `json:"subjetivoEjeOI"`
}

type SubjetivoCerca struct {
	AdicionOD           *float64 `json:"adicionOD"`
	AdicionOI           *float64 `json:"adicionOI"`
	DistanciaTrabajo    *float64 `json:"distanciaTrabajo"`
	AmplitudAcomodacion *float64 `json:"amplitudAcomodacion"`
}

type Binocularidad struct {
	PuntoProximoConvergencia    *string `json:"puntoProximoConvergencia"`
	AcomodacionRelativaNegativa *string `json:"acomodacionRelativaNegativa"`
	AcomodacionRelativaPositiva *string `json:"acomodacionRelativaPositiva"`
	FlexibilidadAcomodativa     *string `json:"flexibilidadAcomodativa"`
	Estereopsis                 *string `json:"estereopsis"`
}

type Forias struct {
	ForiaLejos       *string `json:"foriaLejos"`
	ForiaCerca       *string `json:"foriaCerca"`
	MetodoMedicionID *int64  `json:"metodoMedicionID"`
	Observaciones    *string `json:"observaciones"`
}

type Vergencias struct {
	ReservaFusionalPositivaLejos *string `json:"reservaFusionalPositivaLejos"`
	ReservaFusionalNegativaLejos *string `json:"reservaFusionalNegativaLejos"`
	ReservaFusionalPositivaCerca *string `json:"reservaFusionalPositivaCerca"`
	ReservaFusionalNegativaCerca *string `json:"reservaFusionalNegativaCerca"`
}

type MetodoGrafico struct {
	IntegracionBinocular *string `json:"integracionBinocular"`
	TipoIntegracionID    *int64  `json:"tipoIntegracionID"`
	AmplitudFusional     *string `json:"amplitudFusional"`
	ImagenID             *int64  `json:"imagenID"`
}

type GridAmsler struct {
	OjoDerecho    *string `json:"ojoDerecho"`
	OjoIzquierdo  *string `json:"ojoIzquierdo"`
	Observaciones *string `json:"observaciones"`
}

type Tonometria struct {
	Fecha            *string  `json:"fecha"`
	Hora             *string  `json:"hora"`
	OjoDerecho       *float64 `json:"ojoDerecho"`
	OjoIzquierdo     *float64 `json:"ojoIzquierdo"`
	TipoTonometriaID *int64   `json:"tipoTonometriaID"`
}

type Paquimetria struct {
	OjoDerecho   *float64 `json:"ojoDerecho"`
	OjoIzquierdo *float64 `json:"ojoIzquierdo"`
	Fecha        *string  `json:"fecha"`
	Hora         *string  `json:"hora"`
}

type Campimetria struct {
	Distancia      *string `json:"distancia"`
	TamanoIndice   *string `json:"tamanoIndice"`
	TamanoEstimulo *string `json:"tamanoEstimulo"`
	ImagenID       *int64  `json:"imagenID"`
}

type Biomicroscopia struct {
	Parpados       *string `json:"parpados"`
	Conjuntiva     *string `json:"conjuntiva"`
	Cornea         *string `json:"cornea"`
	CamaraAnterior *string `json:"camaraAnterior"`
	Iris           *string `json:"iris"`
	Cristalino     *string `json:"cristalino"`
	Observaciones  *string `json:"observaciones"`
}

type Oftalmoscopia struct {
	PapilaOD           *string `json:"papilaOD"`
	PapilaOI           *string `json:"papilaOI"`
	ExcavacionOD       *string `json:"excavacionOD"`
	ExcavacionOI       *string `json:"excavacionOI"`
	Macula             *string `json:"macula"`
	Vasos              *string `json:"vasos"`
	RetinaPeriferica   *string `json:"retinaPeriferica"`
	ImagenOjoDerechoID *int64  `json:"imagenOjoDerechoID"`
	ImagenOjoIzqdoID   *int64  `json:"imagenOjoIzquierdoID"`
}

type Diagnostico struct {
	Refractivo    *string `json:"refractivo"`
	Sensorial     *string `json:"sensorial"`
	Patologico    *string `json:"patologico"`
	Observaciones *string `json:"observaciones"`
}

type PlanTratamiento struct {
	Descripcion       *string `json:"descripcion"`
	TipoTratamientoID *int64  `json:"tipoTratamientoID"`
	TiempoUso         *string `json:"tiempoUso"`
}

type Pronostico struct {
	Visual        *string `json:"visual"`
	Funcional     *string `json:"funcional"`
	Observaciones *string `json:"observaciones"`
}

type Recomendaciones struct {
	Descripcion *string `json:"descripcion"`
	ProximaCita *string `json:"proximaCita"`
}

type RecetaFinal struct {
	EsferaOD              *float64 `json:"esferaOD"`
	CilindroOD            *float64 `json:"cilindroOD"`
	EjeOD                 *int64   `json:"ejeOD"`
	EsferaOI              *float64 `json:"esferaOI"`
	CilindroOI            *float64 `json:"cilindroOI"`
	EjeOI                 *int64   `json:"ejeOI"`
	Adicion               *float64 `json:"adicion"`
	DistanciaInterpupilar *float64 `json:"distanciaInterpupilar"`
	MaterialID            *int64   `json:"materialID"`
	TratamientoID         *int64   `json:"tratamientoID"`
	TipoLenteID           *int64   `json:"tipoLenteID"`
	Observaciones         *string  `json:"observaciones"`
}

// SeccionesInput agrupa las secciones enviadas en la creación completa.
// Solo las presentes generan filas; el catálogo fijo lo impone el compilador.
type SeccionesInput struct {
	Interrogatorio    *Interrogatorio    `json:"interrogatorio,omitempty"`
	AgudezaVisual     []AgudezaVisual    `json:"agudezaVisual,omitempty"`
	Lensometria       *Lensometria       `json:"lensometria,omitempty"`
	AlineacionOcular  *AlineacionOcular  `json:"alineacionOcular,omitempty"`
	Motilidad         *Motilidad         `json:"motilidad,omitempty"`
	ExploracionFisica *ExploracionFisica `json:"exploracionFisica,omitempty"`
	ViaPupilar        *ViaPupilar        `json:"viaPupilar,omitempty"`
	EstadoRefractivo  *EstadoRefractivo  `json:"estadoRefractivo,omitempty"`
	SubjetivoCerca    *SubjetivoCerca    `json:"subjetivoCerca,omitempty"`
	Binocularidad     *Binocularidad     `json:"binocularidad,omitempty"`
	Forias            *Forias            `json:"forias,omitempty"`
	Vergencias        *Vergencias        `json:"vergencias,omitempty"`
	MetodoGrafico     *MetodoGrafico     `json:"metodoGrafico,omitempty"`
	GridAmsler        *GridAmsler        `json:"gridAmsler,omitempty"`
	Tonometria        *Tonometria        `json:"tonometria,omitempty"`
	Paquimetria       *Paquimetria       `json:"paquimetria,omitempty"`
	Campimetria       *Campimetria       `json:"campimetria,omitempty"`
	Biomicroscopia    *Biomicroscopia    `json:"biomicroscopia,omitempty"`
	Oftalmoscopia     *Oftalmoscopia     `json:"oftalmoscopia,omitempty"`
	Diagnostico       *Diagnostico       `json:"diagnostico,omitempty"`
	PlanTratamiento   *PlanTratamiento   `json:"planTratamiento,omitempty"`
	Pronostico        *Pronostico        `json:"pronostico,omitempty"`
	Recomendaciones   *Recomendaciones   `json:"recomendaciones,omitempty"`
	RecetaFinal       *RecetaFinal       `json:"recetaFinal,omitempty"`
}

// SeccionesRespuesta es la vista de lectura: las 24 claves siempre
// presentes, null para secciones no capturadas y [] para agudezaVisual.
type SeccionesRespuesta struct {
	Interrogatorio    *Interrogatorio    `json:"interrogatorio"`
	AgudezaVisual     []AgudezaVisual    `json:"agudezaVisual"`
	Lensometria       *Lensometria       `json:"lensometria"`
	AlineacionOcular  *AlineacionOcular  `json:"alineacionOcular"`
	Motilidad         *Motilidad         `json:"motilidad"`
	ExploracionFisica *ExploracionFisica `json:"exploracionFisica"`
	ViaPupilar        *ViaPupilar        `json:"viaPupilar"`
	EstadoRefractivo  *EstadoRefractivo  `json:"estadoRefractivo"`
	SubjetivoCerca    *SubjetivoCerca    `json:"subjetivoCerca"`
	Binocularidad     *Binocularidad     `json:"binocularidad"`
	Forias            *Forias            `json:"forias"`
	Vergencias        *Vergencias        `json:"vergencias"`
	MetodoGrafico     *MetodoGrafico     `json:"metodoGrafico"`
	GridAmsler        *GridAmsler        `json:"gridAmsler"`
	Tonometria        *Tonometria        `json:"tonometria"`
	Paquimetria       *Paquimetria       `json:"paquimetria"`
	Campimetria       *Campimetria       `json:"campimetria"`
	Biomicroscopia    *Biomicroscopia    `json:"biomicroscopia"`
	Oftalmoscopia     *Oftalmoscopia     `json:"oftalmoscopia"`
	Diagnostico       *Diagnostico       `json:"diagnostico"`
	PlanTratamiento   *PlanTratamiento   `json:"planTratamiento"`
	Pronostico        *Pronostico        `json:"pronostico"`
	Recomendaciones   *Recomendaciones   `json:"recomendaciones"`
	RecetaFinal       *RecetaFinal       `json:"recetaFinal"`
}

// Asignar coloca el resultado serializado de una sección en su campo
// tipado. El ensamblador de lectura trabaja con mapas genéricos; este
// puente los proyecta a la variante concreta de cada clave.
func (r *SeccionesRespuesta) Asignar(clave string, datos []byte) error {
	decodificar := func(destino interface{}) error {
		return json.Unmarshal(datos, destino)
	}

	switch clave {
	case "interrogatorio":
		r.Interrogatorio = &Interrogatorio{}
		return decodificar(r.Interrogatorio)
	case "agudezaVisual":
		return decodificar(&r.AgudezaVisual)
	case "lensometria":
		r.Lensometria = &Lensometria{}
		return decodificar(r.Lensometria)
	case "alineacionOcular":
		r.AlineacionOcular = &AlineacionOcular{}
		return decodificar(r.AlineacionOcular)
	case "motilidad":
		r.Motilidad = &Motilidad{}
		return decodificar(r.Motilidad)
	case "exploracionFisica":
		r.ExploracionFisica = &ExploracionFisica{}
		return decodificar(r.ExploracionFisica)
	case "viaPupilar":
		r.ViaPupilar = &ViaPupilar{}
		return decodificar(r.ViaPupilar)
	case "estadoRefractivo":
		r.EstadoRefractivo = &EstadoRefractivo{}
		return decodificar(r.EstadoRefractivo)
	case "subjetivoCerca":
		r.SubjetivoCerca = &SubjetivoCerca{}
		return decodificar(r.SubjetivoCerca)
	case "binocularidad":
		r.Binocularidad = &Binocularidad{}
		return decodificar(r.Binocularidad)
	case "forias":
		r.Forias = &Forias{}
		return decodificar(r.Forias)
	case "vergencias":
		r.Vergencias = &Vergencias{}
		return decodificar(r.Vergencias)
	case "metodoGrafico":
		r.MetodoGrafico = &MetodoGrafico{}
		return decodificar(r.MetodoGrafico)
	case "gridAmsler":
		r.GridAmsler = &GridAmsler{}
		return decodificar(r.GridAmsler)
	case "tonometria":
		r.Tonometria = &Tonometria{}
		return decodificar(r.Tonometria)
	case "paquimetria":
		r.Paquimetria = &Paquimetria{}
		return decodificar(r.Paquimetria)
	case "campimetria":
		r.Campimetria = &Campimetria{}
		return decodificar(r.Campimetria)
	case "biomicroscopia":
		r.Biomicroscopia = &Biomicroscopia{}
		return decodificar(r.Biomicroscopia)
	case "oftalmoscopia":
		r.Oftalmoscopia = &Oftalmoscopia{}
		return decodificar(r.Oftalmoscopia)
	case "diagnostico":
		r.Diagnostico = &Diagnostico{}
		return decodificar(r.Diagnostico)
	case "planTratamiento":
		r.PlanTratamiento = &PlanTratamiento{}
		return decodificar(r.PlanTratamiento)
	case "pronostico":
		r.Pronostico = &Pronostico{}
		return decodificar(r.Pronostico)
	case "recomendaciones":
		r.Recomendaciones = &Recomendaciones{}
		return decodificar(r.Recomendaciones)
	case "recetaFinal":
		r.RecetaFinal = &RecetaFinal{}
		return decodificar(r.RecetaFinal)
	default:
		return fmt.Errorf("sección sin variante tipada: %s", clave)
	}
}
