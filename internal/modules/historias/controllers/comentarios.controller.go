package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"optometria-core/internal/app/config"
	"optometria-core/internal/modules/historias/dto"
	"optometria-core/internal/modules/historias/services"
)

// ComentariosController expone el hilo de revisión docente por HTTP
type ComentariosController struct {
	config      *config.Config
	comentarios *services.ComentariosService
}

// NewComentariosController crea una nueva instancia del controlador
func NewComentariosController(cfg *config.Config, comentarios *services.ComentariosService) *ComentariosController {
	return &ComentariosController{config: cfg, comentarios: comentarios}
}

// Comentar maneja POST /api/v1/historias/:id/comentarios
func (ctrl *ComentariosController) Comentar(c *gin.Context) {
	ident, ok := identidadDe(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": gin.H{
			"code": "NO_AUTENTICADO", "message": "Sesión requerida",
		}})
		return
	}

	historiaID, err := parseID(c, "id")
	if err != nil {
		return
	}

	var req dto.CrearComentarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": gin.H{
			"code": "validation", "message": "Cuerpo de la petición inválido",
		}})
		return
	}

	comentario, err := ctrl.comentarios.Comentar(c.Request.Context(), ident, historiaID, &req)
	if err != nil {
		responderError(c, ctrl.config, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": comentario})
}

// Listar maneja GET /api/v1/historias/:id/comentarios
func (ctrl *ComentariosController) Listar(c *gin.Context) {
	ident, ok := identidadDe(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": gin.H{
			"code": "NO_AUTENTICADO", "message": "Sesión requerida",
		}})
		return
	}

	historiaID, err := parseID(c, "id")
	if err != nil {
		return
	}

	comentarios, err := ctrl.comentarios.ListarPorHistoria(c.Request.Context(), ident, historiaID)
	if err != nil {
		responderError(c, ctrl.config, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": comentarios})
}

// Responder maneja POST /api/v1/historias/:id/comentarios/:comentarioID/respuestas
func (ctrl *ComentariosController) Responder(c *gin.Context) {
	ident, ok := identidadDe(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": gin.H{
			"code": "NO_AUTENTICADO", "message": "Sesión requerida",
		}})
		return
	}

	historiaID, err := parseID(c, "id")
	if err != nil {
		return
	}
	comentarioID, err := parseID(c, "comentarioID")
	if err != nil {
		return
	}

	var req dto.CrearRespuestaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": gin.H{
			"code": "validation", "message": "Cuerpo de la petición inválido",
		}})
		return
	}

	respuesta, err := ctrl.comentarios.Responder(c.Request.Context(), ident, historiaID, comentarioID, &req)
	if err != nil {
		responderError(c, ctrl.config, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": respuesta})
}
