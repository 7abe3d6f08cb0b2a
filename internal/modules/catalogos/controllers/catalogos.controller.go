package controllers

import (
	"net/http"

	"optometria-core/internal/modules/catalogos/services"

	"github.com/gin-gonic/gin"
)

type CatalogosController struct {
	catalogosService *services.CatalogosService
}

// NewCatalogosController crea una nueva instancia del controlador de catálogos
func NewCatalogosController(catalogosService *services.CatalogosService) *CatalogosController {
	return &CatalogosController{
		catalogosService: catalogosService,
	}
}

// Listar - GET /api/v1/catalogos
func (c *CatalogosController) Listar(ctx *gin.Context) {
	catalogos, err := c.catalogosService.ListarAgrupados(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error": "No se pudieron recuperar los catálogos",
			"details": map[string]interface{}{
				"code": "CATALOGOS_UNAVAILABLE",
			},
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    catalogos,
	})
}
