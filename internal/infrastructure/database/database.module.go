package database

import (
	"optometria-core/internal/infrastructure/database/mongodb"
	"optometria-core/internal/infrastructure/database/postgres"
	"optometria-core/internal/infrastructure/database/redis"

	"go.uber.org/fx"
)

// Module agrupa toda la infraestructura de persistencia
var Module = fx.Options(
	postgres.Module,
	redis.Module,
	mongodb.Module,
)
