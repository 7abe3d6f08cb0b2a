package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"optometria-core/internal/modules/auth/dto"
	"optometria-core/internal/modules/auth/services"
)

// AuthController expone el inicio y cierre de sesión
type AuthController struct {
	auth *services.AuthService
}

// NewAuthController crea una nueva instancia del controlador
func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{auth: authService}
}

// Login maneja POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": gin.H{
			"code": "validation", "message": "Usuario y contraseña son requeridos",
		}})
		return
	}

	respuesta, err := ctrl.auth.Login(c.Request.Context(), &req)
	if err != nil {
		if err == services.ErrCredenciales {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": gin.H{
				"code": "CREDENCIALES_INVALIDAS", "message": "Credenciales inválidas",
			}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": gin.H{
			"code": "INTERNAL_ERROR", "message": "Error interno del servidor",
		}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": respuesta})
}

// Logout maneja POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	token := tokenDe(c)
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": gin.H{
			"code": "validation", "message": "Token de sesión requerido",
		}})
		return
	}

	if err := ctrl.auth.Logout(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": gin.H{
			"code": "INTERNAL_ERROR", "message": "Error interno del servidor",
		}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"mensaje": "Sesión cerrada"}})
}

// tokenDe extrae el token Bearer del encabezado Authorization
func tokenDe(c *gin.Context) string {
	encabezado := c.GetHeader("Authorization")
	if encabezado == "" {
		return ""
	}
	return strings.TrimPrefix(encabezado, "Bearer ")
}
