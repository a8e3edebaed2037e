package rest

import (
	"context"
	"net/http"
	"strconv"

	"workflowAdvisor/domain"
	"workflowAdvisor/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

const maxEventsLimit = 500

type PosteriorReader interface {
	DebugPosteriors(actionID string) []domain.DebugPosterior
	Size() int
}

// EventReader lists the feedback audit log, newest first.
type EventReader interface {
	RecentEvents(ctx context.Context, actionID string, limit int) ([]domain.FeedbackEvent, error)
}

type BanditAdminHandler struct {
	engine PosteriorReader
	events EventReader
}

// NewBanditAdminHandler builds the admin views. events may be nil when the
// backend keeps no audit log.
func NewBanditAdminHandler(engine PosteriorReader, events EventReader) *BanditAdminHandler {
	return &BanditAdminHandler{engine: engine, events: events}
}

type PosteriorsResponse struct {
	Total      int                     `json:"total"`
	Posteriors []domain.DebugPosterior `json:"posteriors"`
}

type EventsResponse struct {
	Count  int                    `json:"count"`
	Events []domain.FeedbackEvent `json:"events"`
}

// GET /api/v1/admin/bandit/posteriors?action_id=draft_sow
func (h *BanditAdminHandler) GetPosteriors(c echo.Context) error {
	rows := h.engine.DebugPosteriors(c.QueryParam("action_id"))

	return c.JSON(http.StatusOK, fres.Response.StatusOK(PosteriorsResponse{
		Total:      h.engine.Size(),
		Posteriors: rows,
	}))
}

// GET /api/v1/admin/bandit/events?action_id=draft_sow&limit=50
func (h *BanditAdminHandler) GetEvents(c echo.Context) error {
	if h.events == nil {
		return c.JSON(http.StatusNotFound, ResponseError{Message: "feedback event log is not enabled for this backend"})
	}

	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "limit must be a positive integer"})
		}
		limit = min(n, maxEventsLimit)
	}

	events, err := h.events.RecentEvents(c.Request().Context(), c.QueryParam("action_id"), limit)
	if err != nil {
		logger.Error("Failed to list feedback events", "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to list feedback events"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(EventsResponse{
		Count:  len(events),
		Events: events,
	}))
}
