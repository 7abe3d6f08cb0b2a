package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"optometria-core/internal/app/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

// Application encapsula el servidor HTTP y su ciclo de vida
type Application struct {
	config *config.Config
	router *gin.Engine
	server *http.Server
}

// NewApplication crea una nueva instancia de la aplicación
func NewApplication(cfg *config.Config, router *gin.Engine) *Application {
	return &Application{
		config: cfg,
		router: router,
	}
}

// Start arranca la aplicación con el ciclo de vida de Fx
func (a *Application) Start(lc fx.Lifecycle) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			serverConfig := a.config.GetServer()

			a.server = &http.Server{
				Addr:         fmt.Sprintf("%s:%d", serverConfig.Host, serverConfig.Port),
				Handler:      a.router,
				ReadTimeout:  serverConfig.ReadTimeout,
				WriteTimeout: serverConfig.WriteTimeout,
			}

			// Arranque del servidor en goroutine
			go func() {
				fmt.Printf("[SERVER] 🚀 Iniciando servidor HTTP en %s:%d\n", serverConfig.Host, serverConfig.Port)
				if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					fmt.Printf("[SERVER] ❌ Fallo al iniciar servidor: %v\n", err)
				}
			}()

			fmt.Printf("[SERVER] ✅ Servidor HTTP inicializado (env: %s)\n", a.config.Environment)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			fmt.Printf("[SERVER] 🛑 Deteniendo servidor HTTP\n")

			// Timeout para apagado graceful
			shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()

			if err := a.server.Shutdown(shutdownCtx); err != nil {
				fmt.Printf("[SERVER] ⚠️ Apagado forzado: %v\n", err)
				return err
			}

			fmt.Printf("[SERVER] ✅ Servidor detenido correctamente\n")
			return nil
		},
	})
}

// GetConfig retorna la configuración para acceso externo
func (a *Application) GetConfig() *config.Config {
	return a.config
}

// IsDevelopment indica si la aplicación está en modo desarrollo
func (a *Application) IsDevelopment() bool {
	return a.config.Environment == "development"
}
