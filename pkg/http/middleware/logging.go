package middleware

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestLogging logs each request with method, path, status, and latency.
// Paths in skip (health and scrape probes) produce no log line.
func RequestLogging(skip ...string) echo.MiddlewareFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		if p != "" {
			skipped[p] = struct{}{}
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			req := c.Request()
			if _, ok := skipped[req.URL.Path]; ok {
				return err
			}

			log.Printf("%s %s -> %d in %s (%s)",
				req.Method,
				req.RequestURI,
				c.Response().Status,
				time.Since(start),
				req.RemoteAddr,
			)
			return err
		}
	}
}
