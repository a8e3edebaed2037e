package bandit

import (
	"context"

	"workflowAdvisor/domain"
	"workflowAdvisor/pkg/logger"
)

// filterCandidates drops empty and duplicate IDs (first occurrence wins) and
// anything the eligibility checker rejects. Input order is preserved, which
// the tie-break in SelectAction relies on.
func (e *Engine) filterCandidates(
	ctx context.Context,
	actx domain.AcquisitionContext,
	candidates []domain.Action,
) []domain.Action {

	seen := make(map[string]struct{}, len(candidates))
	out := make([]domain.Action, 0, len(candidates))

	for _, a := range candidates {
		if a.ID == "" {
			continue
		}
		if _, dup := seen[a.ID]; dup {
			continue
		}
		seen[a.ID] = struct{}{}

		if e.eligibility != nil {
			ok, err := e.eligibility.IsEligible(ctx, a, actx)
			if err != nil {
				logger.Warn("bandit_eligibility_error",
					"trace_id", TraceIDFromContext(ctx),
					"action_id", a.ID,
					"error", err,
				)
				continue
			}
			if !ok {
				continue
			}
		}

		out = append(out, a)
	}

	return out
}
