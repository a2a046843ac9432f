package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"HealthPulse/internal/domain/models"
	drepo "HealthPulse/internal/domain/repository"
	"HealthPulse/pkg/logger"
)

// GlobalSelector is the selector value clients send for the worldwide view.
const GlobalSelector = "GLOBAL"

// LoadFailureMessage is the user-visible message when an aggregation fails.
const LoadFailureMessage = "failed to load health indicators"

const (
	slotPrimary = "primary"
	slotCompare = "compare"
)

// ViewState holds the current user selections plus per-slot loading and
// error flags. All fields are transient and reset only by interaction.
type ViewState struct {
	PrimaryCountry string `json:"primary_country"`
	CompareEnabled bool   `json:"compare_enabled"`
	CompareCountry string `json:"compare_country"`
	Metric         string `json:"metric"`

	PrimaryLoading bool   `json:"primary_loading"`
	CompareLoading bool   `json:"compare_loading"`
	PrimaryError   string `json:"primary_error,omitempty"`
	CompareError   string `json:"compare_error,omitempty"`
}

// Snapshot is the full view for rendering: selections plus loaded bundles.
type Snapshot struct {
	State   ViewState     `json:"state"`
	Primary models.Bundle `json:"primary"`
	Compare models.Bundle `json:"compare"`
}

// ViewController owns the view state and triggers re-fetch cycles on each
// selection change. Every launched fetch captures a per-slot generation; a
// result is applied only if its slot generation is unchanged on arrival, so
// a superseded fetch can never overwrite state for a selection no longer
// current. Cancellation is advisory: in-flight requests are not aborted.
type ViewController struct {
	mu sync.Mutex

	agg          *BundleAggregator
	metrics      drepo.Metrics
	logger       *logger.Logger
	globalCode   string
	fetchTimeout time.Duration

	state   ViewState
	primary models.Bundle
	compare models.Bundle

	primaryGen uint64
	compareGen uint64

	subs map[chan Snapshot]struct{}
}

func NewViewController(agg *BundleAggregator, metrics drepo.Metrics, l *logger.Logger, globalCode string, fetchTimeout time.Duration) *ViewController {
	if fetchTimeout <= 0 {
		fetchTimeout = 30 * time.Second
	}
	return &ViewController{
		agg:          agg,
		metrics:      metrics,
		logger:       l,
		globalCode:   globalCode,
		fetchTimeout: fetchTimeout,
		state: ViewState{
			PrimaryCountry: GlobalSelector,
			Metric:         "life_expectancy",
		},
		subs: make(map[chan Snapshot]struct{}),
	}
}

// Snapshot returns the current view under lock.
func (v *ViewController) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

// Subscribe registers a listener for view changes. The returned cancel
// function must be called when the listener goes away.
func (v *ViewController) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)
	v.mu.Lock()
	v.subs[ch] = struct{}{}
	v.mu.Unlock()

	cancel := func() {
		v.mu.Lock()
		delete(v.subs, ch)
		v.mu.Unlock()
	}
	return ch, cancel
}

// SetMetric changes the selected metric. No re-fetch is needed; bundles
// already carry every indicator.
func (v *ViewController) SetMetric(key string) error {
	if _, ok := models.IndicatorByKey(key); !ok {
		return fmt.Errorf("unknown metric %q", key)
	}
	v.mu.Lock()
	v.state.Metric = key
	v.broadcastLocked()
	v.mu.Unlock()
	return nil
}

// SetPrimary changes the primary country and starts a fresh fetch cycle for
// it. The GLOBAL selector maps to the configured worldwide aggregate code.
func (v *ViewController) SetPrimary(code string) {
	v.mu.Lock()
	v.state.PrimaryCountry = code
	v.state.PrimaryLoading = true
	v.state.PrimaryError = ""
	v.primaryGen++
	gen := v.primaryGen
	v.broadcastLocked()
	v.mu.Unlock()

	go v.fetchSlot(slotPrimary, gen, v.resolve(code))
}

// SetCompare toggles comparison or changes the compare country. Toggling
// off clears the compare bundle; any in-flight compare fetch becomes stale.
func (v *ViewController) SetCompare(enabled bool, code string) {
	v.mu.Lock()
	v.state.CompareEnabled = enabled
	if !enabled {
		v.compareGen++
		v.compare = nil
		v.state.CompareCountry = ""
		v.state.CompareLoading = false
		v.state.CompareError = ""
		v.broadcastLocked()
		v.mu.Unlock()
		return
	}

	v.state.CompareCountry = code
	v.state.CompareLoading = true
	v.state.CompareError = ""
	v.compareGen++
	gen := v.compareGen
	v.broadcastLocked()
	v.mu.Unlock()

	go v.fetchSlot(slotCompare, gen, v.resolve(code))
}

// Apply handles one SelectRequest; fields are applied only when present.
func (v *ViewController) Apply(req *models.SelectRequest) error {
	if req.Metric != nil {
		if err := v.SetMetric(*req.Metric); err != nil {
			return err
		}
	}
	if req.Primary != nil {
		v.SetPrimary(*req.Primary)
	}
	if req.CompareEnabled != nil {
		code := ""
		if req.Compare != nil {
			code = *req.Compare
		} else {
			v.mu.Lock()
			code = v.state.CompareCountry
			v.mu.Unlock()
		}
		if *req.CompareEnabled && code == "" {
			return fmt.Errorf("compare country required to enable comparison")
		}
		v.SetCompare(*req.CompareEnabled, code)
	} else if req.Compare != nil {
		v.mu.Lock()
		enabled := v.state.CompareEnabled
		v.mu.Unlock()
		if enabled {
			v.SetCompare(true, *req.Compare)
		} else {
			v.mu.Lock()
			v.state.CompareCountry = *req.Compare
			v.broadcastLocked()
			v.mu.Unlock()
		}
	}
	return nil
}

// resolve maps the GLOBAL selector to the worldwide aggregate code.
func (v *ViewController) resolve(code string) string {
	if strings.EqualFold(code, GlobalSelector) {
		return v.globalCode
	}
	return code
}

// fetchSlot runs an aggregation and applies the outcome only if the slot
// generation is still the one captured at launch.
func (v *ViewController) fetchSlot(slot string, gen uint64, countryCode string) {
	ctx, cancel := context.WithTimeout(context.Background(), v.fetchTimeout)
	defer cancel()

	bundle, err := v.agg.GetBundle(ctx, countryCode)

	v.mu.Lock()
	defer v.mu.Unlock()

	current := v.primaryGen
	if slot == slotCompare {
		current = v.compareGen
	}
	if gen != current {
		v.metrics.RecordStaleDiscard(slot)
		v.logger.Debug("discarding superseded fetch result",
			logger.String("slot", slot), logger.String("country", countryCode))
		return
	}

	if slot == slotPrimary {
		v.state.PrimaryLoading = false
		if err != nil {
			v.primary = nil
			v.state.PrimaryError = LoadFailureMessage
		} else {
			v.primary = bundle
			v.state.PrimaryError = ""
		}
	} else {
		v.state.CompareLoading = false
		if err != nil {
			v.compare = nil
			v.state.CompareError = LoadFailureMessage
		} else {
			v.compare = bundle
			v.state.CompareError = ""
		}
	}

	if err != nil {
		v.logger.Error("fetch cycle failed",
			logger.String("slot", slot),
			logger.String("country", countryCode),
			logger.Error(err))
	}
	v.broadcastLocked()
}

func (v *ViewController) snapshotLocked() Snapshot {
	return Snapshot{State: v.state, Primary: v.primary, Compare: v.compare}
}

// broadcastLocked pushes the current snapshot to subscribers without
// blocking; snapshots to a full listener channel are dropped.
func (v *ViewController) broadcastLocked() {
	snap := v.snapshotLocked()
	for ch := range v.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}
