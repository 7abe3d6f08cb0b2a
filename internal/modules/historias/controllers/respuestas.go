package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"optometria-core/internal/app/config"
	"optometria-core/internal/modules/historias/services"
	auth "optometria-core/internal/shared/middleware/auth"
)

// identidadDe recupera la identidad autenticada del contexto gin
func identidadDe(c *gin.Context) (auth.Identidad, bool) {
	crudo, existe := c.Get(auth.ContextoIdentidad)
	if !existe {
		return auth.Identidad{}, false
	}
	ident, ok := crudo.(auth.Identidad)
	return ident, ok
}

// responderError traduce el error de dominio a su código HTTP.
// Los errores de base de datos exponen el detalle solo en desarrollo.
func responderError(c *gin.Context, cfg *config.Config, err error) {
	historiaErr, ok := err.(*services.HistoriaError)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Error interno del servidor",
			},
		})
		return
	}

	var status int
	switch historiaErr.Type {
	case services.TipoValidacion, services.TipoSeccionDesconocida:
		status = http.StatusBadRequest
	case services.TipoNoAutorizado:
		status = http.StatusForbidden
	case services.TipoNoEncontrado:
		status = http.StatusNotFound
	case services.TipoArchivada:
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
	}

	mensaje := historiaErr.Message
	detalles := historiaErr.Details
	if historiaErr.Type == services.TipoDB && !cfg.IsDevelopment() {
		mensaje = "Error interno del servidor"
		detalles = nil
	}

	cuerpo := gin.H{
		"success": false,
		"error": gin.H{
			"code":    historiaErr.Type,
			"message": mensaje,
		},
	}
	if detalles != nil {
		cuerpo["error"].(gin.H)["details"] = detalles
	}

	c.JSON(status, cuerpo)
}
