package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// StatusSesionInvalida es el código no estándar con el que el front
// distingue una sesión vencida de un 401 de credenciales
const StatusSesionInvalida = 480

// ResolutorSesion resuelve un token opaco a su identidad
type ResolutorSesion interface {
	Obtener(ctx context.Context, token string) (Identidad, error)
}

// Sesion exige un token Bearer válido y deja la identidad en el contexto
func Sesion(resolutor ResolutorSesion) gin.HandlerFunc {
	return func(c *gin.Context) {
		encabezado := c.GetHeader("Authorization")
		if !strings.HasPrefix(encabezado, "Bearer ") {
			c.AbortWithStatusJSON(StatusSesionInvalida, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "SESION_REQUERIDA",
					"message": "Token de sesión requerido",
				},
			})
			return
		}

		token := strings.TrimPrefix(encabezado, "Bearer ")
		ident, err := resolutor.Obtener(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(StatusSesionInvalida, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "SESION_INVALIDA",
					"message": "Sesión inválida o expirada",
				},
			})
			return
		}

		c.Set(ContextoIdentidad, ident)
		c.Next()
	}
}

// RequiereRol restringe la ruta a los roles indicados; corre después de
// Sesion, cuando la identidad ya está en el contexto
func RequiereRol(roles ...string) gin.HandlerFunc {
	permitidos := make(map[string]bool, len(roles))
	for _, rol := range roles {
		permitidos[rol] = true
	}

	return func(c *gin.Context) {
		crudo, existe := c.Get(ContextoIdentidad)
		if !existe {
			c.AbortWithStatusJSON(StatusSesionInvalida, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "SESION_REQUERIDA",
					"message": "Token de sesión requerido",
				},
			})
			return
		}

		ident, ok := crudo.(Identidad)
		if !ok || !permitidos[ident.Rol] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ROL_INSUFICIENTE",
					"message": "El rol de la sesión no permite esta operación",
				},
			})
			return
		}

		c.Next()
	}
}
