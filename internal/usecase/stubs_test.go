package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"HealthPulse/internal/domain/models"
	icache "HealthPulse/internal/service/cache"
	pkgcache "HealthPulse/pkg/cache"
	"HealthPulse/pkg/logger"
)

// stubSource answers indicator fetches from a function so tests can shape
// success, failure, and blocking behavior per call.
type stubSource struct {
	mu         sync.Mutex
	fetchCalls int

	fetch        func(country, indicator string) (models.Series, error)
	countries    []models.Country
	countriesErr error
}

func (s *stubSource) Countries(_ context.Context) ([]models.Country, error) {
	if s.countriesErr != nil {
		return nil, s.countriesErr
	}
	return s.countries, nil
}

func (s *stubSource) FetchSeries(_ context.Context, country, indicator string) (models.Series, error) {
	s.mu.Lock()
	s.fetchCalls++
	s.mu.Unlock()
	return s.fetch(country, indicator)
}

func (s *stubSource) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchCalls
}

type stubMetrics struct {
	mu       sync.Mutex
	fetches  map[string]int
	lookups  map[string]int
	discards map[string]int
}

func newStubMetrics() *stubMetrics {
	return &stubMetrics{
		fetches:  make(map[string]int),
		lookups:  make(map[string]int),
		discards: make(map[string]int),
	}
}

func (m *stubMetrics) RecordFetch(indicator, result string) {
	m.mu.Lock()
	m.fetches[indicator+"/"+result]++
	m.mu.Unlock()
}

func (m *stubMetrics) RecordCacheLookup(result string) {
	m.mu.Lock()
	m.lookups[result]++
	m.mu.Unlock()
}

func (m *stubMetrics) RecordStaleDiscard(slot string) {
	m.mu.Lock()
	m.discards[slot]++
	m.mu.Unlock()
}

func (m *stubMetrics) RecordLatency(string, float64) {}

func (m *stubMetrics) lookupCount(result string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lookups[result]
}

func (m *stubMetrics) discardCount(slot string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.discards[slot]
}

type stubPublisher struct {
	mu     sync.Mutex
	events []models.RefreshEvent
}

func (p *stubPublisher) BundleRefreshed(_ context.Context, ev models.RefreshEvent) error {
	p.mu.Lock()
	p.events = append(p.events, ev)
	p.mu.Unlock()
	return nil
}

func (p *stubPublisher) Close() error { return nil }

func (p *stubPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func newTestBundleCache(t *testing.T, ttl time.Duration) *icache.BundleCache {
	t.Helper()
	store := pkgcache.NewMemoryCache()
	t.Cleanup(func() { _ = store.Close() })
	return icache.New(store, ttl)
}

// seriesFor builds a deterministic series keyed on the country so tests can
// tell whose result landed.
func seriesFor(country string) models.Series {
	var base float64
	for _, r := range country {
		base += float64(r)
	}
	return models.Series{
		{Year: 2018, Value: base + 0.1},
		{Year: 2019, Value: base + 0.5},
	}
}

// waitUntil polls cond with a deadline; fetch cycles run on goroutines.
func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}
