package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"route", "method", "status"},
	)

	httpInFlight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "Current number of in-flight HTTP requests",
		},
		[]string{"route", "method"},
	)

	regOnce sync.Once
)

// Metrics records per-request counters and latency with low cardinality
// labels. The templated route path is used instead of the raw URL.
func Metrics() echo.MiddlewareFunc {
	regOnce.Do(func() {
		prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, httpInFlight)
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route := c.Path()
			if route == "" {
				route = c.Request().URL.Path
			}
			method := c.Request().Method

			httpInFlight.WithLabelValues(route, method).Inc()
			start := time.Now()

			err := next(c)

			status := strconv.Itoa(c.Response().Status)
			httpRequestsTotal.WithLabelValues(route, method, status).Inc()
			httpRequestDuration.WithLabelValues(route, method, status).Observe(time.Since(start).Seconds())
			httpInFlight.WithLabelValues(route, method).Dec()

			return err
		}
	}
}
