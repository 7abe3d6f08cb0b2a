package historias

import (
	"go.uber.org/fx"

	"optometria-core/internal/modules/historias/controllers"
	"optometria-core/internal/modules/historias/services"
)

// Module agrupa el dominio de historias clínicas: guarda de acceso,
// escritura transaccional, lectura paralela, hilo de comentarios y
// bitácora de eventos.
var Module = fx.Options(
	fx.Provide(services.NewGuardService),
	fx.Provide(services.NewAuditoriaService),
	fx.Provide(services.NewLecturaService),
	fx.Provide(services.NewCreacionService),
	fx.Provide(services.NewActualizacionService),
	fx.Provide(services.NewComentariosService),

	fx.Provide(controllers.NewHistoriasController),
	fx.Provide(controllers.NewComentariosController),
)
