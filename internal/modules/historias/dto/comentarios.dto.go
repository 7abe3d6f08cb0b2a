package dto

import "time"

// CrearComentarioRequest publica un comentario de revisión (profesor/admin)
type CrearComentarioRequest struct {
	Texto string `json:"texto"`
}

// CrearRespuestaRequest publica la respuesta del alumno a un comentario
type CrearRespuestaRequest struct {
	Texto string `json:"texto"`
}

// RespuestaRespuesta es una respuesta del alumno dentro del hilo
type RespuestaRespuesta struct {
	ID           int64     `json:"id"`
	ComentarioID int64     `json:"comentarioID"`
	AlumnoID     int64     `json:"alumnoID"`
	Texto        string    `json:"texto"`
	CreadoEn     time.Time `json:"creadoEn"`
}

// ComentarioRespuesta es un comentario de profesor con sus respuestas,
// ambos niveles ordenados por fecha de creación ascendente
type ComentarioRespuesta struct {
	ID             int64                `json:"id"`
	ProfesorInfoID int64                `json:"profesorInfoID"`
	ProfesorNombre *string              `json:"profesorNombre"`
	Texto          string               `json:"texto"`
	CreadoEn       time.Time            `json:"creadoEn"`
	Respuestas     []RespuestaRespuesta `json:"respuestas"`
}
