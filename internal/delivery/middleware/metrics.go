package middleware

import (
	"net/http"
	"strconv"
	"time"

	"membership/internal/infra/metrics"

	"github.com/labstack/echo/v4"
)

// MetricsMiddleware records request counts and latency per route template
type MetricsMiddleware struct {
	metrics *metrics.Metrics
}

// NewMetricsMiddleware creates a new metrics middleware. A nil Metrics disables recording.
func NewMetricsMiddleware(m *metrics.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: m}
}

// Handle observes the request after the handler (and error handler) has written the response
func (m *MetricsMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		route := c.Path()
		if route == "" || c.Response().Status == http.StatusNotFound {
			route = "unmatched"
		}
		m.metrics.ObserveHTTP(route, c.Request().Method, strconv.Itoa(c.Response().Status), time.Since(start))

		return nil
	}
}
