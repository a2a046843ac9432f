package usecase

import (
	"errors"
	"sync"
	"testing"
	"time"

	"HealthPulse/internal/domain/models"
)

func newTestController(t *testing.T, source *stubSource) (*ViewController, *stubMetrics) {
	t.Helper()
	metrics := newStubMetrics()
	agg := NewBundleAggregator(source, newTestBundleCache(t, 10*time.Minute), nil, metrics, newTestLogger(t))
	return NewViewController(agg, metrics, newTestLogger(t), "WLD", 5*time.Second), metrics
}

func TestInitialState(t *testing.T) {
	v, _ := newTestController(t, &stubSource{fetch: func(string, string) (models.Series, error) {
		return nil, nil
	}})

	snap := v.Snapshot()
	if snap.State.PrimaryCountry != GlobalSelector {
		t.Fatalf("expected GLOBAL initial selection, got %q", snap.State.PrimaryCountry)
	}
	if snap.State.Metric != "life_expectancy" {
		t.Fatalf("expected life_expectancy initial metric, got %q", snap.State.Metric)
	}
	if snap.State.CompareEnabled {
		t.Fatalf("expected comparison disabled initially")
	}
}

func TestSetPrimaryLoadsBundle(t *testing.T) {
	source := &stubSource{fetch: func(country, indicator string) (models.Series, error) {
		return seriesFor(country), nil
	}}
	v, _ := newTestController(t, source)

	v.SetPrimary("BRA")
	waitUntil(t, func() bool { return !v.Snapshot().State.PrimaryLoading })

	snap := v.Snapshot()
	if snap.State.PrimaryError != "" {
		t.Fatalf("unexpected error %q", snap.State.PrimaryError)
	}
	want := seriesFor("BRA")
	if got := snap.Primary["life_expectancy"]; len(got) == 0 || got[0].Value != want[0].Value {
		t.Fatalf("expected BRA bundle, got %+v", got)
	}
}

func TestGlobalSelectorResolvesToWorldCode(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]bool{}
	source := &stubSource{fetch: func(country, indicator string) (models.Series, error) {
		mu.Lock()
		seen[country] = true
		mu.Unlock()
		return seriesFor(country), nil
	}}
	v, _ := newTestController(t, source)

	v.SetPrimary("GLOBAL")
	waitUntil(t, func() bool { return !v.Snapshot().State.PrimaryLoading })

	mu.Lock()
	defer mu.Unlock()
	if !seen["WLD"] || seen["GLOBAL"] {
		t.Fatalf("expected remote fetches against WLD, saw %v", seen)
	}
}

func TestSupersededFetchIsDiscarded(t *testing.T) {
	var mu sync.Mutex
	gates := map[string]chan struct{}{
		"AAA": make(chan struct{}),
		"BBB": make(chan struct{}),
	}
	source := &stubSource{fetch: func(country, indicator string) (models.Series, error) {
		mu.Lock()
		gate := gates[country]
		mu.Unlock()
		if gate != nil {
			<-gate
		}
		return seriesFor(country), nil
	}}
	v, metrics := newTestController(t, source)

	// The user picks AAA, then switches to BBB before the first fetch lands.
	v.SetPrimary("AAA")
	v.SetPrimary("BBB")

	close(gates["BBB"])
	waitUntil(t, func() bool { return !v.Snapshot().State.PrimaryLoading })

	wantBBB := seriesFor("BBB")
	snap := v.Snapshot()
	if got := snap.Primary["life_expectancy"]; got[0].Value != wantBBB[0].Value {
		t.Fatalf("expected BBB bundle, got %+v", got)
	}

	// Now the stale AAA result arrives and must not overwrite BBB.
	close(gates["AAA"])
	waitUntil(t, func() bool { return metrics.discardCount("primary") == 1 })

	snap = v.Snapshot()
	if got := snap.Primary["life_expectancy"]; got[0].Value != wantBBB[0].Value {
		t.Fatalf("superseded result overwrote state: %+v", got)
	}
	if snap.State.PrimaryCountry != "BBB" {
		t.Fatalf("unexpected selection %q", snap.State.PrimaryCountry)
	}
}

func TestFetchFailureEmptiesBundle(t *testing.T) {
	source := &stubSource{fetch: func(country, indicator string) (models.Series, error) {
		if country == "ERR" {
			return nil, errors.New("status 500")
		}
		return seriesFor(country), nil
	}}
	v, _ := newTestController(t, source)

	v.SetPrimary("BRA")
	waitUntil(t, func() bool { return !v.Snapshot().State.PrimaryLoading })

	v.SetPrimary("ERR")
	waitUntil(t, func() bool { return !v.Snapshot().State.PrimaryLoading })

	snap := v.Snapshot()
	if snap.State.PrimaryError != LoadFailureMessage {
		t.Fatalf("expected %q, got %q", LoadFailureMessage, snap.State.PrimaryError)
	}
	if len(snap.Primary) != 0 {
		t.Fatalf("expected emptied bundle after failure, got %+v", snap.Primary)
	}
}

func TestCompareToggleOffClears(t *testing.T) {
	source := &stubSource{fetch: func(country, indicator string) (models.Series, error) {
		return seriesFor(country), nil
	}}
	v, _ := newTestController(t, source)

	v.SetCompare(true, "JPN")
	waitUntil(t, func() bool { return !v.Snapshot().State.CompareLoading })
	if got := v.Snapshot().Compare; len(got) == 0 {
		t.Fatalf("expected compare bundle loaded")
	}

	v.SetCompare(false, "")
	snap := v.Snapshot()
	if snap.State.CompareEnabled || snap.State.CompareCountry != "" {
		t.Fatalf("expected comparison cleared, got %+v", snap.State)
	}
	if len(snap.Compare) != 0 {
		t.Fatalf("expected compare bundle dropped")
	}
	if snap.State.CompareError != "" || snap.State.CompareLoading {
		t.Fatalf("expected compare flags reset, got %+v", snap.State)
	}
}

func TestSetMetricNeedsNoRefetch(t *testing.T) {
	source := &stubSource{fetch: func(country, indicator string) (models.Series, error) {
		return seriesFor(country), nil
	}}
	v, _ := newTestController(t, source)

	v.SetPrimary("BRA")
	waitUntil(t, func() bool { return !v.Snapshot().State.PrimaryLoading })
	before := source.calls()

	if err := v.SetMetric("child_mortality"); err != nil {
		t.Fatalf("set metric: %v", err)
	}
	if source.calls() != before {
		t.Fatalf("metric change triggered a fetch")
	}
	if v.Snapshot().State.Metric != "child_mortality" {
		t.Fatalf("metric not applied")
	}
}

func TestSetMetricRejectsUnknown(t *testing.T) {
	v, _ := newTestController(t, &stubSource{fetch: func(string, string) (models.Series, error) {
		return nil, nil
	}})
	if err := v.SetMetric("gdp"); err == nil {
		t.Fatalf("expected error for unknown metric")
	}
}

func TestApplyRequiresCompareCountry(t *testing.T) {
	v, _ := newTestController(t, &stubSource{fetch: func(string, string) (models.Series, error) {
		return nil, nil
	}})

	enabled := true
	err := v.Apply(&models.SelectRequest{CompareEnabled: &enabled})
	if err == nil {
		t.Fatalf("expected error enabling comparison without a country")
	}
}

func TestSubscribeReceivesSnapshots(t *testing.T) {
	source := &stubSource{fetch: func(country, indicator string) (models.Series, error) {
		return seriesFor(country), nil
	}}
	v, _ := newTestController(t, source)

	ch, cancel := v.Subscribe()
	defer cancel()

	v.SetPrimary("BRA")

	select {
	case snap := <-ch:
		if snap.State.PrimaryCountry != "BRA" {
			t.Fatalf("unexpected snapshot %+v", snap.State)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no snapshot received")
	}
}
