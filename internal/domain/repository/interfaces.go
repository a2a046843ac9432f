package repository

import (
	"context"

	"HealthPulse/internal/domain/models"
)

// IndicatorSource is the remote statistics API, treated as a black box
// returning country and observation lists.
type IndicatorSource interface {
	Countries(ctx context.Context) ([]models.Country, error)
	FetchSeries(ctx context.Context, countryCode, indicatorID string) (models.Series, error)
}

// RefreshPublisher emits an event whenever a fresh bundle is stored.
type RefreshPublisher interface {
	BundleRefreshed(ctx context.Context, ev models.RefreshEvent) error
	Close() error
}

type Metrics interface {
	RecordFetch(indicator, result string)
	RecordCacheLookup(result string)
	RecordStaleDiscard(slot string)
	RecordLatency(op string, seconds float64)
}
