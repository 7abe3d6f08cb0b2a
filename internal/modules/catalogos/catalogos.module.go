package catalogos

import (
	"go.uber.org/fx"

	"optometria-core/internal/modules/catalogos/controllers"
	"optometria-core/internal/modules/catalogos/services"
)

// Module agrupa el dominio de catálogos generales
var Module = fx.Options(
	fx.Provide(services.NewCatalogosService),
	fx.Provide(controllers.NewCatalogosController),
)
