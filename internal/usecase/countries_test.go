package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"HealthPulse/internal/domain/models"
	pkgcache "HealthPulse/pkg/cache"
)

func newTestDirectory(t *testing.T, source *stubSource) *CountryDirectory {
	t.Helper()
	store := pkgcache.NewMemoryCache()
	t.Cleanup(func() { _ = store.Close() })
	return NewCountryDirectory(source, store, time.Hour)
}

func TestCountriesCached(t *testing.T) {
	source := &stubSource{countries: []models.Country{{Code: "BRA", Name: "Brazil"}}}
	d := newTestDirectory(t, source)
	ctx := context.Background()

	first, err := d.Countries(ctx)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("expected 1 country, got %d", len(first))
	}

	// A failure after the first load must not surface while cached.
	source.countriesErr = errors.New("down")
	second, err := d.Countries(ctx)
	if err != nil {
		t.Fatalf("expected cached list, got %v", err)
	}
	if len(second) != 1 || second[0].Code != "BRA" {
		t.Fatalf("unexpected cached list %+v", second)
	}
}

func TestCountriesFailureNotCached(t *testing.T) {
	source := &stubSource{countriesErr: models.ErrCountryList}
	d := newTestDirectory(t, source)
	ctx := context.Background()

	if _, err := d.Countries(ctx); !errors.Is(err, models.ErrCountryList) {
		t.Fatalf("expected ErrCountryList, got %v", err)
	}

	// Recovery: the next call loads and caches.
	source.countriesErr = nil
	source.countries = []models.Country{{Code: "VNM", Name: "Viet Nam"}}
	countries, err := d.Countries(ctx)
	if err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
	if len(countries) != 1 {
		t.Fatalf("unexpected list %+v", countries)
	}
}

func TestCountryNameFallsBackToCode(t *testing.T) {
	source := &stubSource{countries: []models.Country{{Code: "BRA", Name: "Brazil"}}}
	d := newTestDirectory(t, source)
	ctx := context.Background()

	if got := d.CountryName(ctx, "BRA"); got != "Brazil" {
		t.Fatalf("expected Brazil, got %q", got)
	}
	if got := d.CountryName(ctx, "ZZZ"); got != "ZZZ" {
		t.Fatalf("expected code fallback, got %q", got)
	}
}
