package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	upstreamFetches *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	staleDiscards   *prometheus.CounterVec
	latency         *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		upstreamFetches: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "healthpulse_upstream_fetches_total",
				Help: "Total indicator fetches against the remote source",
			},
			[]string{"indicator", "result"},
		),
		cacheLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "healthpulse_cache_lookups_total",
				Help: "Bundle cache lookups by result (hit, miss, stale)",
			},
			[]string{"result"},
		),
		staleDiscards: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "healthpulse_stale_results_discarded_total",
				Help: "Fetch results discarded because the selection changed",
			},
			[]string{"slot"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "healthpulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordFetch records one upstream indicator fetch.
func (r *Recorder) RecordFetch(indicator, result string) {
	r.upstreamFetches.WithLabelValues(indicator, result).Inc()
}

// RecordCacheLookup records a bundle cache lookup result.
func (r *Recorder) RecordCacheLookup(result string) {
	r.cacheLookups.WithLabelValues(result).Inc()
}

// RecordStaleDiscard records a superseded fetch result being dropped.
func (r *Recorder) RecordStaleDiscard(slot string) {
	r.staleDiscards.WithLabelValues(slot).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
