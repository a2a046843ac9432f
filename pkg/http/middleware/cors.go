package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	AllowOrigins []string
	AllowMethods []string
	AllowHeaders []string
}

// DashboardCORS is the policy for the browser dashboard: any origin, the
// read/select verbs the API uses, JSON content negotiation headers.
func DashboardCORS() CORSConfig {
	return CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}
}

// CORS returns CORS middleware for the given policy.
func CORS(cfg CORSConfig) echo.MiddlewareFunc {
	allowAll := len(cfg.AllowOrigins) == 1 && cfg.AllowOrigins[0] == "*"
	methods := strings.Join(cfg.AllowMethods, ", ")
	headers := strings.Join(cfg.AllowHeaders, ", ")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			origin := c.Request().Header.Get(echo.HeaderOrigin)

			if !allowAll && !originAllowed(cfg.AllowOrigins, origin) {
				return next(c)
			}

			h := c.Response().Header()
			switch {
			case origin != "":
				h.Set(echo.HeaderAccessControlAllowOrigin, origin)
			case allowAll:
				h.Set(echo.HeaderAccessControlAllowOrigin, "*")
			}
			if methods != "" {
				h.Set(echo.HeaderAccessControlAllowMethods, methods)
			}
			if headers != "" {
				h.Set(echo.HeaderAccessControlAllowHeaders, headers)
			}

			if c.Request().Method == http.MethodOptions {
				return c.NoContent(http.StatusNoContent)
			}
			return next(c)
		}
	}
}

func originAllowed(allowed []string, origin string) bool {
	for _, o := range allowed {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}
