package middleware

import (
	"errors"
	"net/http"

	"workflowAdvisor/business/bandit"
	"workflowAdvisor/pkg/logger"
	jsonres "workflowAdvisor/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders errors that escape a handler in the JSON envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	code := "INTERNAL_ERROR"
	message := "Internal server error"

	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		status = he.Code
		code = http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			message = m
		}
	case errors.Is(err, bandit.ErrNoValidAction):
		status = http.StatusUnprocessableEntity
		code = "NO_VALID_ACTION"
		message = err.Error()
	default:
		logger.Error("Unhandled error",
			"trace_id", bandit.TraceIDFromContext(c.Request().Context()),
			"path", c.Path(),
			"error", err,
		)
	}

	if err := c.JSON(status, jsonres.Error(code, message, nil)); err != nil {
		logger.Error("Failed to write error response", "error", err)
	}
}
