package middleware

import (
	"strconv"
	"time"

	"workflowAdvisor/pkg/metrics"

	"github.com/labstack/echo/v4"
)

// MetricsMiddleware records handler latency by route template.
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			metrics.HTTPRequestDuration.
				WithLabelValues(c.Path(), c.Request().Method, strconv.Itoa(status)).
				Observe(time.Since(start).Seconds())

			return err
		}
	}
}
