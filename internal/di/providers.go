package di

import (
	"fmt"

	"HealthPulse/internal/domain/repository"
	"HealthPulse/internal/handler/api"
	internalrepo "HealthPulse/internal/repository"
	bundlecache "HealthPulse/internal/service/cache"
	"HealthPulse/internal/service/worldbank"
	"HealthPulse/internal/usecase"
	pkgcache "HealthPulse/pkg/cache"
	"HealthPulse/pkg/config"
	xhttp "HealthPulse/pkg/http"
	pkgkafka "HealthPulse/pkg/kafka"
	applogger "HealthPulse/pkg/logger"
	"HealthPulse/pkg/metrics"
	"HealthPulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideCacheStore creates the cache backend selected by config:
// in-process memory only, or memory layered over Redis.
func ProvideCacheStore(cfg *config.Config) (pkgcache.Service, error) {
	memOpts := []pkgcache.MemoryOption{
		pkgcache.WithMemoryMaxSize(cfg.Cache.MemoryItems),
	}

	switch cfg.Cache.Backend {
	case "layered":
		redisCache, err := pkgcache.NewRedisCache(
			pkgcache.WithRedisHost(cfg.Cache.Redis.Host),
			pkgcache.WithRedisPort(cfg.Cache.Redis.Port),
			pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
			pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return pkgcache.NewLayeredCache(redisCache, memOpts...), nil
	default:
		return pkgcache.NewMemoryCache(memOpts...), nil
	}
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideIndicatorSource creates the World Bank API client.
func ProvideIndicatorSource(cfg *config.Config) repository.IndicatorSource {
	return worldbank.New(
		cfg.WorldBank.BaseURL,
		cfg.WorldBank.Timeout,
		worldbank.WithPageSizes(cfg.WorldBank.CountriesPerPage, cfg.WorldBank.SeriesPerPage),
		worldbank.WithRateLimit(cfg.WorldBank.RateLimitBurst, cfg.WorldBank.RateLimitPerSec),
	)
}

// ProvideBundleCache creates the TTL cache for indicator bundles.
func ProvideBundleCache(store pkgcache.Service, cfg *config.Config) *bundlecache.BundleCache {
	return bundlecache.New(store, cfg.Cache.TTL)
}

// ProvideRefreshPublisher creates the Kafka publisher for bundle refresh
// events, or nil when Kafka is disabled.
func ProvideRefreshPublisher(cfg *config.Config) (repository.RefreshPublisher, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaRefreshPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideAggregator creates the bundle aggregation use case.
func ProvideAggregator(
	source repository.IndicatorSource,
	cache *bundlecache.BundleCache,
	publisher repository.RefreshPublisher,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.BundleAggregator {
	return usecase.NewBundleAggregator(source, cache, publisher, m, l)
}

// ProvideCountryDirectory creates the cached country listing use case.
func ProvideCountryDirectory(source repository.IndicatorSource, store pkgcache.Service, cfg *config.Config) *usecase.CountryDirectory {
	return usecase.NewCountryDirectory(source, store, cfg.Cache.CountryTTL)
}

// ProvideViewController creates the dashboard view state controller.
func ProvideViewController(
	agg *usecase.BundleAggregator,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.ViewController {
	return usecase.NewViewController(agg, m, l, cfg.WorldBank.GlobalCode, cfg.WorldBank.Timeout)
}

// ProvideHandler creates the HTTP handler surface.
func ProvideHandler(
	l *applogger.Logger,
	agg *usecase.BundleAggregator,
	directory *usecase.CountryDirectory,
	view *usecase.ViewController,
) xhttp.Handler {
	return api.NewDashboardHandler(l, agg, directory, view)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	store pkgcache.Service,
	publisher repository.RefreshPublisher,
) *server.App {
	return server.New(cfg, l, handler, store, publisher)
}
