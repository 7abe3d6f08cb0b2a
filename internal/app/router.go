package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"optometria-core/internal/app/config"
	"optometria-core/internal/infrastructure/database/mongodb"
	"optometria-core/internal/infrastructure/database/postgres"
	"optometria-core/internal/infrastructure/database/redis"
	"optometria-core/internal/infrastructure/logger"
	authcontrollers "optometria-core/internal/modules/auth/controllers"
	catalogoscontrollers "optometria-core/internal/modules/catalogos/controllers"
	historiascontrollers "optometria-core/internal/modules/historias/controllers"
	imagenescontrollers "optometria-core/internal/modules/imagenes/controllers"
	authmw "optometria-core/internal/shared/middleware/auth"
	"optometria-core/internal/shared/middleware/core"
	"optometria-core/internal/shared/middleware/security"
)

// RouterParams agrupa las dependencias del enrutador
type RouterParams struct {
	fx.In

	Config    *config.Config
	Logger    *logger.LoggerMiddleware
	Recovery  core.RecoveryHandler
	CORS      security.CORSHandler
	Sesiones  authmw.ResolutorSesion
	Postgres  *postgres.Client
	Redis     *redis.Client
	Mongo     *mongodb.Client

	Auth        *authcontrollers.AuthController
	Catalogos   *catalogoscontrollers.CatalogosController
	Historias   *historiascontrollers.HistoriasController
	Comentarios *historiascontrollers.ComentariosController
	Imagenes    *imagenescontrollers.ImagenesController
}

// NewRouter construye el enrutador con middleware global y las rutas de
// todos los dominios bajo /api/v1
func NewRouter(p RouterParams) *gin.Engine {
	if !p.Config.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(p.Logger.GinLogger())
	router.Use(gin.HandlerFunc(p.Recovery))
	router.Use(gin.HandlerFunc(p.CORS))

	registrarSalud(router, p)
	registrarAPI(router, p)

	return router
}

// registrarSalud expone los sondeos de vida y disponibilidad
func registrarSalud(router *gin.Engine, p RouterParams) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"environment": p.Config.Environment,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	router.GET("/ready", func(c *gin.Context) {
		componentes := gin.H{}
		listo := true

		if err := p.Postgres.HealthCheck(c.Request.Context()); err != nil {
			componentes["postgres"] = err.Error()
			listo = false
		} else {
			componentes["postgres"] = "ok"
		}

		if err := p.Redis.HealthCheck(c.Request.Context()); err != nil {
			componentes["redis"] = err.Error()
			listo = false
		} else {
			componentes["redis"] = "ok"
		}

		if err := p.Mongo.HealthCheck(c.Request.Context()); err != nil {
			// La bitácora es de mejor esfuerzo y no bloquea la disponibilidad
			componentes["mongodb"] = err.Error()
		} else {
			componentes["mongodb"] = "ok"
		}

		status := http.StatusOK
		if !listo {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"ready": listo, "components": componentes})
	})
}

// registrarAPI monta las rutas de dominio; todo excepto el login exige sesión
func registrarAPI(router *gin.Engine, p RouterParams) {
	api := router.Group("/api/v1")

	api.POST("/auth/login", p.Auth.Login)

	protegido := api.Group("", authmw.Sesion(p.Sesiones))
	protegido.POST("/auth/logout", p.Auth.Logout)
	protegido.GET("/catalogos", p.Catalogos.Listar)
	protegido.GET("/imagenes/:imagenID", p.Imagenes.Descargar)

	historias := protegido.Group("/historias")
	{
		historias.POST("", authmw.RequiereRol(authmw.RolAlumno), p.Historias.Crear)
		historias.GET("", p.Historias.Listar)
		historias.GET("/:id", p.Historias.Obtener)
		historias.PATCH("/:id/secciones/:clave", p.Historias.ActualizarSeccion)
		historias.POST("/:id/secciones/:clave/imagenes", p.Imagenes.Subir)
		historias.PATCH("/:id/estado", p.Historias.CambiarEstado)

		historias.PATCH("/:id/archivo", authmw.RequiereRol(authmw.RolAdmin), p.Historias.AlternarArchivo)
		historias.DELETE("/:id", authmw.RequiereRol(authmw.RolAdmin), p.Historias.Eliminar)
		historias.GET("/:id/auditoria", authmw.RequiereRol(authmw.RolAdmin), p.Historias.Auditoria)

		historias.GET("/:id/comentarios", p.Comentarios.Listar)
		historias.POST("/:id/comentarios",
			authmw.RequiereRol(authmw.RolProfesor, authmw.RolAdmin), p.Comentarios.Comentar)
		historias.POST("/:id/comentarios/:comentarioID/respuestas",
			authmw.RequiereRol(authmw.RolAlumno), p.Comentarios.Responder)
	}
}
