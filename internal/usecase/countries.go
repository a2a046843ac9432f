package usecase

import (
	"context"
	"time"

	"HealthPulse/internal/domain/models"
	drepo "HealthPulse/internal/domain/repository"
	pkgcache "HealthPulse/pkg/cache"
)

const countriesCacheKey = "countries"

// CountryDirectory serves the country selector list with its own short
// cache. A load failure surfaces as ErrCountryList and nothing is cached.
type CountryDirectory struct {
	source drepo.IndicatorSource
	store  pkgcache.Service
	ttl    time.Duration
}

func NewCountryDirectory(source drepo.IndicatorSource, store pkgcache.Service, ttl time.Duration) *CountryDirectory {
	return &CountryDirectory{source: source, store: store, ttl: ttl}
}

// Countries returns the cached country list, loading it on a miss.
func (d *CountryDirectory) Countries(ctx context.Context) ([]models.Country, error) {
	var cached []models.Country
	if err := d.store.Get(ctx, countriesCacheKey, &cached); err == nil && len(cached) > 0 {
		return cached, nil
	}

	countries, err := d.source.Countries(ctx)
	if err != nil {
		return nil, err
	}
	_ = d.store.Set(ctx, countriesCacheKey, countries, d.ttl)
	return countries, nil
}

// CountryName resolves a code to its display name; the code itself is the
// fallback when the list is unavailable or the code is unknown.
func (d *CountryDirectory) CountryName(ctx context.Context, code string) string {
	countries, err := d.Countries(ctx)
	if err != nil {
		return code
	}
	for _, c := range countries {
		if c.Code == code {
			return c.Name
		}
	}
	return code
}
