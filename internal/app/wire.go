//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"github.com/ivan1013/esports-management-system/internal/config"
	"github.com/ivan1013/esports-management-system/internal/observability"
)

func InitializeApp(cfg *config.Config, runtime *observability.Runtime) (*App, error) {
	wire.Build(
		provideDB,
		provideRedis,
		provideJWTManager,
		provideAuthService,
		provideReadiness,
		provideRouter,
		provideServer,
		provideStop,
		provideLogger,
		New,
	)
	return nil, nil
}
