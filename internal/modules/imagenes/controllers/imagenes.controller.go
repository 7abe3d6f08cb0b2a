package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"optometria-core/internal/app/config"
	historias "optometria-core/internal/modules/historias/services"
	"optometria-core/internal/modules/imagenes/services"
	auth "optometria-core/internal/shared/middleware/auth"
)

// ImagenesController expone la carga y descarga de imágenes diagnósticas
type ImagenesController struct {
	config   *config.Config
	imagenes *services.ImagenesService
}

// NewImagenesController crea una nueva instancia del controlador
func NewImagenesController(cfg *config.Config, imagenes *services.ImagenesService) *ImagenesController {
	return &ImagenesController{config: cfg, imagenes: imagenes}
}

// Subir maneja POST /api/v1/historias/:id/secciones/:clave/imagenes
// Espera multipart con el archivo en "imagen" y el campo destino en "campo"
func (ctrl *ImagenesController) Subir(c *gin.Context) {
	ident, ok := identidadDe(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": gin.H{
			"code": "NO_AUTENTICADO", "message": "Sesión requerida",
		}})
		return
	}

	historiaID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || historiaID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": gin.H{
			"code": "validation", "message": "Identificador inválido en la ruta",
		}})
		return
	}

	archivo, err := c.FormFile("imagen")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": gin.H{
			"code": "validation", "message": "El archivo 'imagen' es requerido",
		}})
		return
	}

	campo := c.PostForm("campo")
	if campo == "" {
		campo = "imagenID"
	}

	imagen, err := ctrl.imagenes.Subir(c.Request.Context(), ident, historiaID, c.Param("clave"), campo, archivo)
	if err != nil {
		responderError(c, ctrl.config, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": imagen})
}

// Descargar maneja GET /api/v1/imagenes/:imagenID
func (ctrl *ImagenesController) Descargar(c *gin.Context) {
	if _, ok := identidadDe(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": gin.H{
			"code": "NO_AUTENTICADO", "message": "Sesión requerida",
		}})
		return
	}

	imagenID, err := strconv.ParseInt(c.Param("imagenID"), 10, 64)
	if err != nil || imagenID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": gin.H{
			"code": "validation", "message": "Identificador inválido en la ruta",
		}})
		return
	}

	imagen, err := ctrl.imagenes.Obtener(c.Request.Context(), imagenID)
	if err != nil {
		responderError(c, ctrl.config, err)
		return
	}

	c.Header("Content-Type", imagen.TipoMime)
	c.File(imagen.Ruta)
}

// identidadDe recupera la identidad autenticada del contexto gin
func identidadDe(c *gin.Context) (auth.Identidad, bool) {
	crudo, existe := c.Get(auth.ContextoIdentidad)
	if !existe {
		return auth.Identidad{}, false
	}
	ident, ok := crudo.(auth.Identidad)
	return ident, ok
}

// responderError traduce el error de dominio a su código HTTP
func responderError(c *gin.Context, cfg *config.Config, err error) {
	historiaErr, ok := err.(*historias.HistoriaError)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": gin.H{
			"code": "INTERNAL_ERROR", "message": "Error interno del servidor",
		}})
		return
	}

	var status int
	switch historiaErr.Type {
	case historias.TipoValidacion, historias.TipoSeccionDesconocida:
		status = http.StatusBadRequest
	case historias.TipoNoAutorizado:
		status = http.StatusForbidden
	case historias.TipoNoEncontrado:
		status = http.StatusNotFound
	case historias.TipoArchivada:
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
	}

	mensaje := historiaErr.Message
	if historiaErr.Type == historias.TipoDB && !cfg.IsDevelopment() {
		mensaje = "Error interno del servidor"
	}

	c.JSON(status, gin.H{"success": false, "error": gin.H{
		"code":    historiaErr.Type,
		"message": mensaje,
	}})
}
