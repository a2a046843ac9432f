//go:build wireinject
// +build wireinject

package di

import (
	"HealthPulse/pkg/config"
	"HealthPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure
		ProvideCacheStore,
		ProvideRefreshPublisher,
		ProvideIndicatorSource,
		ProvideBundleCache,

		// Use cases
		ProvideAggregator,
		ProvideCountryDirectory,
		ProvideViewController,

		// HTTP surface
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
