package app

import (
	"go.uber.org/fx"

	"optometria-core/internal/app/config"
	"optometria-core/internal/infrastructure/database"
	"optometria-core/internal/infrastructure/database/redis"
	"optometria-core/internal/infrastructure/logger"
	"optometria-core/internal/modules/auth"
	authservices "optometria-core/internal/modules/auth/services"
	"optometria-core/internal/modules/catalogos"
	"optometria-core/internal/modules/historias"
	"optometria-core/internal/modules/imagenes"
	authmw "optometria-core/internal/shared/middleware/auth"
	"optometria-core/internal/shared/middleware/core"
	"optometria-core/internal/shared/middleware/security"
)

// AppModule es el árbol de dependencias completo de la aplicación
var AppModule = fx.Options(
	// Configuración y sus proyecciones de infraestructura
	fx.Provide(config.NewConfig),
	fx.Provide(config.NewPostgresConfig),
	fx.Provide(config.NewRedisConfig),
	fx.Provide(config.NewMongoConfig),
	fx.Provide(NewRedisKeyGenerator),

	// Infraestructura de persistencia y observabilidad
	database.Module,
	logger.Module,

	// Middleware global
	fx.Provide(core.RecoveryMiddleware),
	fx.Provide(security.CORSMiddleware),
	fx.Provide(NewResolutorSesion),

	// Dominios
	auth.Module,
	catalogos.Module,
	historias.Module,
	imagenes.Module,

	// HTTP
	fx.Provide(NewRouter),
	fx.Provide(NewApplication),
	fx.Invoke(RegisterApplication),
)

// NewRedisKeyGenerator amarra el espacio de claves Redis al entorno
func NewRedisKeyGenerator(cfg *config.Config) *redis.RedisKeyGenerator {
	return redis.NewRedisKeyGenerator(cfg.Environment)
}

// NewResolutorSesion expone el servicio de sesiones al middleware
func NewResolutorSesion(sesiones *authservices.SessionService) authmw.ResolutorSesion {
	return sesiones
}

// RegisterApplication engancha el servidor HTTP al ciclo de vida de Fx
func RegisterApplication(lc fx.Lifecycle, application *Application) {
	application.Start(lc)
}
