package auth

import (
	"go.uber.org/fx"

	"optometria-core/internal/modules/auth/controllers"
	"optometria-core/internal/modules/auth/services"
)

// Module agrupa autenticación y sesiones
var Module = fx.Options(
	fx.Provide(services.NewSessionService),
	fx.Provide(services.NewAuthService),
	fx.Provide(controllers.NewAuthController),
)
