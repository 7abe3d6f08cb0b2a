package main

import (
	"context"
	"log"

	"optometria-core/internal/app"

	"go.uber.org/fx"
)

func main() {

	fx.New(
		app.AppModule,
		fx.Invoke(func(lifecycle fx.Lifecycle) {
			lifecycle.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					log.Println("Optometría Core API iniciando...")
					return nil
				},
				OnStop: func(ctx context.Context) error {
					log.Println("Optometría Core API deteniéndose...")
					return nil
				},
			})
		}),
	).Run()
}
