package services

import (
	"errors"
	"fmt"
)

// Taxonomía de errores del dominio de historias clínicas.
// Las escrituras son todo-o-nada por transacción; las lecturas degradan
// sección por sección. Un error de almacenamiento siempre provoca rollback.

const (
	TipoValidacion         = "validation"
	TipoNoEncontrado       = "not_found"
	TipoNoAutorizado       = "not_authorized"
	TipoArchivada          = "archived"
	TipoSeccionDesconocida = "unknown_section"
	TipoDB                 = "db"
)

// HistoriaError - Error de negocio común para todos los servicios del dominio
type HistoriaError struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	causa   error
}

func (e *HistoriaError) Error() string {
	return e.Message
}

func (e *HistoriaError) Unwrap() error {
	return e.causa
}

// ErrValidacion - campos requeridos ausentes o inválidos
func ErrValidacion(mensaje string, detalles map[string]interface{}) *HistoriaError {
	return &HistoriaError{Type: TipoValidacion, Message: mensaje, Details: detalles}
}

// ErrNoEncontrado - la entidad no existe o está fuera de la vista autorizada
// del solicitante; deliberadamente indistinguible de una denegación para no
// filtrar existencia.
func ErrNoEncontrado(entidad string, id int64) *HistoriaError {
	return &HistoriaError{
		Type:    TipoNoEncontrado,
		Message: fmt.Sprintf("%s no encontrada", entidad),
		Details: map[string]interface{}{"id": id},
	}
}

// ErrNoAutorizado - el rol o la titularidad no permiten la operación
func ErrNoAutorizado(mensaje string) *HistoriaError {
	return &HistoriaError{Type: TipoNoAutorizado, Message: mensaje}
}

// ErrArchivada - mutación sobre una historia archivada; la guarda es
// absoluta sin importar el rol.
func ErrArchivada(historiaID int64) *HistoriaError {
	return &HistoriaError{
		Type:    TipoArchivada,
		Message: "la historia clínica está archivada y no admite modificaciones",
		Details: map[string]interface{}{"historiaID": historiaID},
	}
}

// ErrSeccionDesconocida - clave de sección fuera del catálogo fijo
func ErrSeccionDesconocida(clave string) *HistoriaError {
	return &HistoriaError{
		Type:    TipoSeccionDesconocida,
		Message: fmt.Sprintf("sección desconocida: %s", clave),
		Details: map[string]interface{}{"seccion": clave},
	}
}

// ErrDB - envuelve cualquier falla del almacenamiento
func ErrDB(operacion string, err error) *HistoriaError {
	return &HistoriaError{
		Type:    TipoDB,
		Message: fmt.Sprintf("error de base de datos en %s", operacion),
		Details: map[string]interface{}{"causa": err.Error()},
		causa:   err,
	}
}

// EsTipo verifica si un error pertenece a un tipo de la taxonomía
func EsTipo(err error, tipo string) bool {
	var he *HistoriaError
	if errors.As(err, &he) {
		return he.Type == tipo
	}
	return false
}
