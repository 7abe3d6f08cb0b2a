package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"optometria-core/internal/app/config"
	"optometria-core/internal/modules/historias/dto"
	"optometria-core/internal/modules/historias/services"
)

// HistoriasController expone el agregado historia clínica por HTTP
type HistoriasController struct {
	config        *config.Config
	creacion      *services.CreacionService
	lectura       *services.LecturaService
	actualizacion *services.ActualizacionService
	auditoria     *services.AuditoriaService
}

// NewHistoriasController crea una nueva instancia del controlador
func NewHistoriasController(
	cfg *config.Config,
	creacion *services.CreacionService,
	lectura *services.LecturaService,
	actualizacion *services.ActualizacionService,
	auditoria *services.AuditoriaService,
) *HistoriasController {
	return &HistoriasController{
		config:        cfg,
		creacion:      creacion,
		lectura:       lectura,
		actualizacion: actualizacion,
		auditoria:     auditoria,
	}
}

// Crear maneja POST /api/v1/historias
func (ctrl *HistoriasController) Crear(c *gin.Context) {
	ident, ok := identidadDe(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": gin.H{
			"code": "NO_AUTENTICADO", "message": "Sesión requerida",
		}})
		return
	}

	var req dto.CrearHistoriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": gin.H{
			"code": "validation", "message": "Cuerpo de la petición inválido",
		}})
		return
	}

	historia, err := ctrl.creacion.CrearCompleta(c.Request.Context(), ident, &req)
	if err != nil {
		responderError(c, ctrl.config, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": historia})
}

// Listar maneja GET /api/v1/historias
// El administrador puede filtrar con ?archivado=true|false
func (ctrl *HistoriasController) Listar(c *gin.Context) {
	ident, ok := identidadDe(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": gin.H{
			"code": "NO_AUTENTICADO", "message": "Sesión requerida",
		}})
		return
	}

	var archivado *bool
	if crudo, presente := c.GetQuery("archivado"); presente {
		valor, err := strconv.ParseBool(crudo)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": gin.H{
				"code": "validation", "message": "El filtro archivado debe ser true o false",
			}})
			return
		}
		archivado = &valor
	}

	historias, err := ctrl.lectura.Listar(c.Request.Context(), ident, archivado)
	if err != nil {
		responderError(c, ctrl.config, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": historias, "total": len(historias)})
}

// Obtener maneja GET /api/v1/historias/:id
func (ctrl *HistoriasController) Obtener(c *gin.Context) {
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

	historia, err := ctrl.lectura.ObtenerCompleta(c.Request.Context(), historiaID, ident)
	if err != nil {
		responderError(c, ctrl.config, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": historia})
}

// ActualizarSeccion maneja PATCH /api/v1/historias/:id/secciones/:clave
func (ctrl *HistoriasController) ActualizarSeccion(c *gin.Context) {
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

	var cuerpo json.RawMessage
	if err := c.ShouldBindJSON(&cuerpo); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": gin.H{
			"code": "validation", "message": "Cuerpo de la petición inválido",
		}})
		return
	}

	historia, err := ctrl.actualizacion.ActualizarSeccion(
		c.Request.Context(), ident, historiaID, c.Param("clave"), cuerpo)
	if err != nil {
		responderError(c, ctrl.config, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": historia})
}

// CambiarEstado maneja PATCH /api/v1/historias/:id/estado
func (ctrl *HistoriasController) CambiarEstado(c *gin.Context) {
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

	var req dto.CambiarEstadoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": gin.H{
			"code": "validation", "message": "Cuerpo de la petición inválido",
		}})
		return
	}

	if err := ctrl.actualizacion.CambiarEstado(c.Request.Context(), ident, historiaID, &req); err != nil {
		responderError(c, ctrl.config, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"historiaID": historiaID,
		"estadoID":   req.EstadoID,
	}})
}

// AlternarArchivo maneja PATCH /api/v1/historias/:id/archivo
func (ctrl *HistoriasController) AlternarArchivo(c *gin.Context) {
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

	var req dto.ArchivoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": gin.H{
			"code": "validation", "message": "Cuerpo de la petición inválido",
		}})
		return
	}

	if err := ctrl.actualizacion.AlternarArchivo(c.Request.Context(), ident, historiaID, &req); err != nil {
		responderError(c, ctrl.config, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"historiaID": historiaID,
		"archivado":  req.Archivar,
	}})
}

// Eliminar maneja DELETE /api/v1/historias/:id
func (ctrl *HistoriasController) Eliminar(c *gin.Context) {
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

	if err := ctrl.actualizacion.Eliminar(c.Request.Context(), ident, historiaID); err != nil {
		responderError(c, ctrl.config, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"historiaID": historiaID}})
}

// Auditoria maneja GET /api/v1/historias/:id/auditoria (solo admin)
func (ctrl *HistoriasController) Auditoria(c *gin.Context) {
	ident, ok := identidadDe(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": gin.H{
			"code": "NO_AUTENTICADO", "message": "Sesión requerida",
		}})
		return
	}
	if !ident.EsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": gin.H{
			"code": "not_authorized", "message": "Solo administradores",
		}})
		return
	}

	historiaID, err := parseID(c, "id")
	if err != nil {
		return
	}

	eventos, err := ctrl.auditoria.ListarPorHistoria(c.Request.Context(), historiaID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": gin.H{
			"code": "db", "message": "Bitácora no disponible",
		}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": eventos})
}

// parseID lee un parámetro de ruta numérico; responde 400 si no lo es
func parseID(c *gin.Context, nombre string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(nombre), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": gin.H{
			"code": "validation", "message": "Identificador inválido en la ruta",
		}})
		if err == nil {
			err = strconv.ErrSyntax
		}
		return 0, err
	}
	return id, nil
}
