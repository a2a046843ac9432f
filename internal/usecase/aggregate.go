package usecase

import (
	"context"
	"sync"
	"time"

	"HealthPulse/internal/domain/models"
	drepo "HealthPulse/internal/domain/repository"
	icache "HealthPulse/internal/service/cache"
	"HealthPulse/pkg/logger"
)

// BundleAggregator assembles complete indicator bundles for countries. A
// fresh cache entry short-circuits; otherwise every configured indicator is
// fetched concurrently and the bundle is stored only when all succeed.
type BundleAggregator struct {
	source    drepo.IndicatorSource
	cache     *icache.BundleCache
	publisher drepo.RefreshPublisher // optional
	metrics   drepo.Metrics
	logger    *logger.Logger
}

func NewBundleAggregator(
	source drepo.IndicatorSource,
	cache *icache.BundleCache,
	publisher drepo.RefreshPublisher,
	metrics drepo.Metrics,
	l *logger.Logger,
) *BundleAggregator {
	return &BundleAggregator{
		source:    source,
		cache:     cache,
		publisher: publisher,
		metrics:   metrics,
		logger:    l,
	}
}

// GetBundle returns the complete bundle for a country, from cache when
// fresh. A single indicator failure fails the whole aggregation; no partial
// bundle is ever cached.
func (a *BundleAggregator) GetBundle(ctx context.Context, countryCode string) (models.Bundle, error) {
	if entry, ok := a.cache.Get(ctx, countryCode); ok {
		if a.cache.IsFresh(entry) {
			a.metrics.RecordCacheLookup("hit")
			return entry.Bundle, nil
		}
		a.metrics.RecordCacheLookup("stale")
	} else {
		a.metrics.RecordCacheLookup("miss")
	}

	start := time.Now()
	bundle, err := a.fetchAll(ctx, countryCode)
	a.metrics.RecordLatency("aggregate_bundle", time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	if err := a.cache.Put(ctx, countryCode, bundle); err != nil {
		// A write failure only costs a refetch later.
		a.logger.Warn("bundle cache write failed",
			logger.String("country", countryCode), logger.Error(err))
	}

	a.publishRefresh(ctx, countryCode, bundle)
	return bundle, nil
}

func (a *BundleAggregator) fetchAll(ctx context.Context, countryCode string) (models.Bundle, error) {
	indicators := models.Indicators()

	type item struct {
		key    string
		series models.Series
		err    error
	}
	ch := make(chan item, len(indicators))
	var wg sync.WaitGroup

	for _, ind := range indicators {
		wg.Add(1)
		go func(ind models.Indicator) {
			defer wg.Done()
			s, err := a.source.FetchSeries(ctx, countryCode, ind.RemoteID)
			result := "ok"
			if err != nil {
				result = "error"
			}
			a.metrics.RecordFetch(ind.Key, result)
			ch <- item{key: ind.Key, series: s, err: err}
		}(ind)
	}

	go func() { wg.Wait(); close(ch) }()

	bundle := make(models.Bundle, len(indicators))
	var firstErr *models.IndicatorFetchError
	for it := range ch {
		if it.err != nil {
			if firstErr == nil {
				firstErr = &models.IndicatorFetchError{
					Country:   countryCode,
					Indicator: it.key,
					Err:       it.err,
				}
			}
			continue
		}
		bundle[it.key] = it.series
	}

	if firstErr != nil {
		return nil, firstErr
	}
	return bundle, nil
}

func (a *BundleAggregator) publishRefresh(ctx context.Context, countryCode string, bundle models.Bundle) {
	if a.publisher == nil {
		return
	}
	keys := make([]string, 0, len(bundle))
	for k := range bundle {
		keys = append(keys, k)
	}
	ev := models.RefreshEvent{Country: countryCode, Indicators: keys, RefreshedAt: time.Now()}
	if err := a.publisher.BundleRefreshed(ctx, ev); err != nil {
		a.logger.Warn("refresh event publish failed",
			logger.String("country", countryCode), logger.Error(err))
	}
}
