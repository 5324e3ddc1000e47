package middleware

import (
	"strconv"
	"time"

	"notetaker/cmd/internal/metrics"

	"github.com/labstack/echo/v4"
)

// NewMetricsMiddleware records request counts and latencies per route.
// Routes are labeled by their template (e.g. /api/notes/:id) to keep cardinality bounded.
func NewMetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			metrics.ActiveRequests.Inc()
			defer metrics.ActiveRequests.Dec()

			err := next(c)
			if err != nil {
				// Let echo write the error response so the status below is the real one.
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			method := c.Request().Method

			metrics.HTTPRequestsTotal.WithLabelValues(
				method,
				path,
				strconv.Itoa(c.Response().Status),
			).Inc()

			metrics.HTTPRequestDuration.WithLabelValues(
				method,
				path,
			).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
