package bandit

import (
	"context"

	"workflowAdvisor/domain"
)

// EligibilityChecker decides whether a candidate may be recommended in the
// given context (role permissions, phase gates, clause prerequisites).
type EligibilityChecker interface {
	IsEligible(ctx context.Context, action domain.Action, actx domain.AcquisitionContext) (bool, error)
}

// NoopEligibilityChecker is the default implementation that allows everything.
type NoopEligibilityChecker struct{}

func (NoopEligibilityChecker) IsEligible(context.Context, domain.Action, domain.AcquisitionContext) (bool, error) {
	return true, nil
}
