//go:build wireinject
// +build wireinject

package main

import (
	"travelmail/config"
	"travelmail/internal/command"
	"travelmail/internal/cron"
	"travelmail/internal/database"
	"travelmail/internal/handler"
	"travelmail/internal/middleware"
	"travelmail/internal/router"
	"travelmail/internal/service"
	"travelmail/internal/telemetry"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// wireApp init application.
func wireApp(*config.Configuration, *zap.Logger) (*App, func(), error) {
	panic(
		wire.Build(
			database.ProviderSet,
			service.ProviderSet,
			handler.ProviderSet,
			middleware.ProviderSet,
			router.ProviderSet,
			cron.ProviderSet,
			newHttpServer,
			telemetry.ProviderSet,
			newApp,
		),
	)
}

// wireCommand init command.
func wireCommand(*config.Configuration, *zap.Logger) (*command.Command, func(), error) {
	panic(
		wire.Build(
			command.ProviderSet,
			service.ProviderSet,
			telemetry.ProviderSet,
		),
	)
}
