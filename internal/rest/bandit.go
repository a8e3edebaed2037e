package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"workflowAdvisor/business/bandit"
	"workflowAdvisor/domain"
	"workflowAdvisor/pkg/logger"
	"workflowAdvisor/pkg/metrics"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type ResponseError struct {
	Message string `json:"message"`
}

type (
	BanditHandler struct {
		validate      *validator.Validate
		banditService BanditService
		timeout       time.Duration
	}

	BanditService interface {
		SelectAction(ctx context.Context, actx domain.AcquisitionContext, candidates []domain.Action) (domain.ActionRecommendation, error)
		UpdateReward(ctx context.Context, actionID string, signal bandit.RewardSignal, actx domain.AcquisitionContext) error
		UpdateFromOutcome(ctx context.Context, actionID string, outcome domain.Outcome, actx domain.AcquisitionContext) error
	}

	RecommendRequest struct {
		Context    domain.AcquisitionContext `json:"context"`
		Candidates []domain.Action           `json:"candidates" validate:"required,min=1,dive"`
	}

	OutcomeRequest struct {
		Accepted                *bool    `json:"accepted"`
		Modified                bool     `json:"modified"`
		DownstreamIssues        *int     `json:"downstream_issues" validate:"omitempty,gte=0"`
		ComplianceViolations    *int     `json:"compliance_violations" validate:"omitempty,gte=0"`
		ExpectedDurationSeconds *float64 `json:"expected_duration_seconds" validate:"omitempty,gt=0"`
		ActualDurationSeconds   *float64 `json:"actual_duration_seconds" validate:"omitempty,gt=0"`
	}

	// FeedbackRequest carries either a precomputed signal or a raw outcome.
	FeedbackRequest struct {
		ActionID string                    `json:"action_id" validate:"required"`
		Context  domain.AcquisitionContext `json:"context"`
		Signal   *bandit.RewardSignal      `json:"signal" validate:"required_without=Outcome,excluded_with=Outcome"`
		Outcome  *OutcomeRequest           `json:"outcome" validate:"required_without=Signal"`
	}

	FeedbackResult struct {
		ActionID  string `json:"action_id"`
		Persisted bool   `json:"persisted"`
	}
)

func NewBanditHandler(svc BanditService) *BanditHandler {
	return &BanditHandler{
		validate:      validator.New(),
		banditService: svc,
		timeout:       10 * time.Second,
	}
}

// POST /api/v1/recommendations
func (h *BanditHandler) Recommend(c echo.Context) error {
	var req RecommendRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	rec, err := h.banditService.SelectAction(ctx, req.Context, req.Candidates)
	if errors.Is(err, bandit.ErrNoValidAction) {
		return c.JSON(http.StatusUnprocessableEntity, ResponseError{Message: err.Error()})
	}
	if err != nil {
		logger.Error("Failed to select action", "trace_id", bandit.TraceIDFromContext(ctx), "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	metrics.RecommendRequests.Inc()
	return c.JSON(http.StatusOK, fres.Response.StatusOK(rec))
}

// POST /api/v1/recommendations/feedback
func (h *BanditHandler) Feedback(c echo.Context) error {
	var req FeedbackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	var err error
	if req.Signal != nil {
		metrics.FeedbackRequests.WithLabelValues("signal").Inc()
		err = h.banditService.UpdateReward(ctx, req.ActionID, *req.Signal, req.Context)
	} else {
		metrics.FeedbackRequests.WithLabelValues("outcome").Inc()
		err = h.banditService.UpdateFromOutcome(ctx, req.ActionID, req.Outcome.toDomain(), req.Context)
	}

	// The posterior is already updated when only the save failed.
	if errors.Is(err, bandit.ErrSaveFailed) {
		logger.Warn("Feedback applied but not persisted",
			"trace_id", bandit.TraceIDFromContext(ctx),
			"action_id", req.ActionID,
			"error", err,
		)
		return c.JSON(http.StatusAccepted, fres.Response.StatusOK(FeedbackResult{ActionID: req.ActionID}))
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(FeedbackResult{ActionID: req.ActionID, Persisted: true}))
}

func (o *OutcomeRequest) toDomain() domain.Outcome {
	out := domain.Outcome{
		Accepted:             o.Accepted,
		Modified:             o.Modified,
		DownstreamIssues:     o.DownstreamIssues,
		ComplianceViolations: o.ComplianceViolations,
	}
	if o.ExpectedDurationSeconds != nil {
		d := time.Duration(*o.ExpectedDurationSeconds * float64(time.Second))
		out.ExpectedDuration = &d
	}
	if o.ActualDurationSeconds != nil {
		d := time.Duration(*o.ActualDurationSeconds * float64(time.Second))
		out.ActualDuration = &d
	}
	return out
}
