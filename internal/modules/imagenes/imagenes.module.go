package imagenes

import (
	"go.uber.org/fx"

	"optometria-core/internal/modules/imagenes/controllers"
	"optometria-core/internal/modules/imagenes/services"
)

// Module agrupa el manejo de imágenes diagnósticas
var Module = fx.Options(
	fx.Provide(services.NewImagenesService),
	fx.Provide(controllers.NewImagenesController),
)
