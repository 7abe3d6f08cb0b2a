package core

import (
	"log/slog"
	"runtime"

	"github.com/gin-gonic/gin"
)

// RecoveryHandler tipo específico para Fx
type RecoveryHandler gin.HandlerFunc

// RecoveryMiddleware captura panics y responde con un error limpio.
// Ninguna falla de una operación debe tumbar el proceso servidor.
func RecoveryMiddleware() RecoveryHandler {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				stack := make([]byte, 4096)
				n := runtime.Stack(stack, false)

				slog.Error("panic recovered",
					"error", err,
					"stack", string(stack[:n]),
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
					"client_ip", c.ClientIP(),
				)

				c.AbortWithStatusJSON(500, gin.H{
					"error": "Ocurrió un error interno",
					"details": map[string]interface{}{
						"code": "INTERNAL_ERROR",
					},
				})
			}
		}()
		c.Next()
	}
}
