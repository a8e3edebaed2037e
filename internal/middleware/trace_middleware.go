package middleware

import (
	"workflowAdvisor/business/bandit"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const HeaderRequestID = "X-Request-ID"

// TraceMiddleware puts a trace id on the request context, taken from
// X-Request-ID or freshly generated, and echoes it back in the response.
func TraceMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(HeaderRequestID)
			if id == "" {
				id = uuid.NewString()
			}

			req := c.Request()
			c.SetRequest(req.WithContext(bandit.WithTraceID(req.Context(), id)))
			c.Response().Header().Set(HeaderRequestID, id)

			return next(c)
		}
	}
}
