package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	drepo "HealthPulse/internal/domain/repository"
	pkgcache "HealthPulse/pkg/cache"
	"HealthPulse/pkg/config"
	xhttp "HealthPulse/pkg/http"
	applogger "HealthPulse/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	logger      *applogger.Logger
	httpHandler xhttp.Handler
	httpServer  *xhttp.Server
	cacheStore  pkgcache.Service
	publisher   drepo.RefreshPublisher
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	cacheStore pkgcache.Service,
	publisher drepo.RefreshPublisher,
) *App {
	return &App{
		cfg:         cfg,
		logger:      l,
		httpHandler: handler,
		cacheStore:  cacheStore,
		publisher:   publisher,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	metricsPath := ""
	if a.cfg.Metrics.Enabled {
		metricsPath = a.cfg.Metrics.Path
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
	}

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
	)

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("dashboard service started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("cache_backend", a.cfg.Cache.Backend),
		applogger.Bool("kafka", a.cfg.Kafka.Enabled),
	)

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("publisher close error", applogger.Error(err))
		}
	}

	if a.cacheStore != nil {
		if err := a.cacheStore.Close(); err != nil {
			a.logger.Warn("cache close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
