package dto

import "time"

// PacienteInput identifica o describe al paciente de una historia nueva.
// Si trae ID se reutiliza el expediente; si no, se busca por correo o
// teléfono y en último caso se crea.
type PacienteInput struct {
	ID              *int64  `json:"id,omitempty"`
	Nombre          string  `json:"nombre"`
	ApellidoPaterno string  `json:"apellidoPaterno"`
	ApellidoMaterno *string `json:"apellidoMaterno,omitempty"`
	GeneroID        int64   `json:"generoID"`
	Edad            int64   `json:"edad"`
	CURP            string  `json:"curp"`
	Correo          *string `json:"correo,omitempty"`
	Telefono        *string `json:"telefono,omitempty"`
	Direccion       *string `json:"direccion,omitempty"`
	Ocupacion       *string `json:"ocupacion,omitempty"`
}

// CrearHistoriaRequest es la petición de creación completa
type CrearHistoriaRequest struct {
	Paciente          PacienteInput  `json:"paciente"`
	MateriaProfesorID int64          `json:"materiaProfesorID"`
	ConsultorioID     *int64         `json:"consultorioID,omitempty"`
	PeriodoEscolarID  *int64         `json:"periodoEscolarID,omitempty"`
	Secciones         SeccionesInput `json:"secciones"`
}

// CambiarEstadoRequest cambia el estado de flujo de la historia
type CambiarEstadoRequest struct {
	EstadoID int64 `json:"estadoID"`
}

// ArchivoRequest archiva o desarchiva una historia (solo admin)
type ArchivoRequest struct {
	Archivar bool `json:"archivar"`
}

// PacienteRespuesta es la vista wire del expediente del paciente
type PacienteRespuesta struct {
	ID              int64   `json:"id"`
	Nombre          string  `json:"nombre"`
	ApellidoPaterno string  `json:"apellidoPaterno"`
	ApellidoMaterno *string `json:"apellidoMaterno"`
	GeneroID        int64   `json:"generoID"`
	Edad            int64   `json:"edad"`
	CURP            string  `json:"curp"`
	Correo          *string `json:"correo"`
	Telefono        *string `json:"telefono"`
	Direccion       *string `json:"direccion"`
	Ocupacion       *string `json:"ocupacion"`
}

// HistoriaRespuesta es el agregado completo que retorna la lectura:
// raíz + las 24 secciones (siempre presentes) + hilo de comentarios.
type HistoriaRespuesta struct {
	ID                int64                 `json:"id"`
	PacienteID        int64                 `json:"pacienteID"`
	AlumnoID          int64                 `json:"alumnoID"`
	MateriaProfesorID int64                 `json:"materiaProfesorID"`
	ConsultorioID     *int64                `json:"consultorioID"`
	PeriodoEscolarID  *int64                `json:"periodoEscolarID"`
	EstadoID          int64                 `json:"estadoID"`
	Archivado         bool                  `json:"archivado"`
	FechaArchivado    *time.Time            `json:"fechaArchivado"`
	CreadoEn          time.Time             `json:"creadoEn"`
	ActualizadoEn     time.Time             `json:"actualizadoEn"`
	Paciente          *PacienteRespuesta    `json:"paciente"`
	Secciones         SeccionesRespuesta    `json:"secciones"`
	Comentarios       []ComentarioRespuesta `json:"comentarios"`
}

// HistoriaResumen es la fila del listado por rol
type HistoriaResumen struct {
	ID              int64     `json:"id"`
	PacienteNombre  string    `json:"pacienteNombre"`
	AlumnoID        int64     `json:"alumnoID"`
	EstadoID        int64     `json:"estadoID"`
	Archivado       bool      `json:"archivado"`
	CreadoEn        time.Time `json:"creadoEn"`
	ActualizadoEn   time.Time `json:"actualizadoEn"`
}
