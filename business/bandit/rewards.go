package bandit

import (
	"context"

	"workflowAdvisor/domain"
)

// Reward weights. Changing any of them changes what the engine learns, so
// bump RewardWeightsVersion together with them; it is stored in snapshots.
const (
	WeightImmediate  = 0.4
	WeightDelayed    = 0.3
	WeightCompliance = 0.2
	WeightEfficiency = 0.1

	RewardWeightsVersion = "v1"

	// rewards at or above this count as a success
	successThreshold = 0.5
)

// RewardSignal carries the four independent reward components, each in [0, 1].
type RewardSignal struct {
	Immediate  float64 `json:"immediate" validate:"gte=0,lte=1"`
	Delayed    float64 `json:"delayed" validate:"gte=0,lte=1"`
	Compliance float64 `json:"compliance" validate:"gte=0,lte=1"`
	Efficiency float64 `json:"efficiency" validate:"gte=0,lte=1"`
}

// Total is Aggregate applied to the signal's components.
func (r RewardSignal) Total() float64 {
	return Aggregate(r.Immediate, r.Delayed, r.Compliance, r.Efficiency)
}

// Aggregate combines the four signals with the fixed weights. Out-of-range
// and NaN inputs are clamped first, so the result is always in [0, 1].
func Aggregate(immediate, delayed, compliance, efficiency float64) float64 {
	total := WeightImmediate*clamp01(immediate) +
		WeightDelayed*clamp01(delayed) +
		WeightCompliance*clamp01(compliance) +
		WeightEfficiency*clamp01(efficiency)
	return clamp01(total)
}

// SignalCalculator derives one reward component from an observed outcome.
// Implementations return a value in [0, 1] and a low score, not an error,
// when the data they need is missing.
type SignalCalculator interface {
	Score(ctx context.Context, outcome domain.Outcome) float64
}

// SignalCalculatorFunc adapts a function to SignalCalculator.
type SignalCalculatorFunc func(ctx context.Context, outcome domain.Outcome) float64

func (f SignalCalculatorFunc) Score(ctx context.Context, outcome domain.Outcome) float64 {
	return f(ctx, outcome)
}

// AcceptanceCalculator scores whether the user took the suggestion.
type AcceptanceCalculator struct {
	// score for an accepted-but-edited suggestion; 0.6 when zero
	ModifiedScore float64
}

func (c AcceptanceCalculator) Score(_ context.Context, o domain.Outcome) float64 {
	if o.Accepted == nil || !*o.Accepted {
		return 0
	}
	if o.Modified {
		if c.ModifiedScore > 0 {
			return clamp01(c.ModifiedScore)
		}
		return 0.6
	}
	return 1
}

// ConsequenceCalculator scores downstream problems traced back to the action.
type ConsequenceCalculator struct{}

func (ConsequenceCalculator) Score(_ context.Context, o domain.Outcome) float64 {
	if o.DownstreamIssues == nil || *o.DownstreamIssues < 0 {
		return 0
	}
	return 1.0 / (1.0 + float64(*o.DownstreamIssues))
}

// ComplianceCalculator halves the score for every regulatory violation.
type ComplianceCalculator struct{}

func (ComplianceCalculator) Score(_ context.Context, o domain.Outcome) float64 {
	if o.ComplianceViolations == nil || *o.ComplianceViolations < 0 {
		return 0
	}
	score := 1.0
	for i := 0; i < *o.ComplianceViolations && score > 0; i++ {
		score *= 0.5
	}
	return score
}

// EfficiencyCalculator compares expected with actual duration.
type EfficiencyCalculator struct{}

func (EfficiencyCalculator) Score(_ context.Context, o domain.Outcome) float64 {
	if o.ExpectedDuration == nil || o.ActualDuration == nil {
		return 0
	}
	expected, actual := *o.ExpectedDuration, *o.ActualDuration
	if expected <= 0 || actual <= 0 {
		return 0
	}
	return clamp01(float64(expected) / float64(actual))
}

// OutcomeEvaluator turns an Outcome into a RewardSignal through four
// pluggable calculators.
type OutcomeEvaluator struct {
	Immediate  SignalCalculator
	Delayed    SignalCalculator
	Compliance SignalCalculator
	Efficiency SignalCalculator
}

// NewOutcomeEvaluator returns the evaluator with the default calculators.
func NewOutcomeEvaluator() OutcomeEvaluator {
	return OutcomeEvaluator{
		Immediate:  AcceptanceCalculator{},
		Delayed:    ConsequenceCalculator{},
		Compliance: ComplianceCalculator{},
		Efficiency: EfficiencyCalculator{},
	}
}

// Evaluate runs every calculator; a nil calculator contributes 0.
func (e OutcomeEvaluator) Evaluate(ctx context.Context, o domain.Outcome) RewardSignal {
	return RewardSignal{
		Immediate:  score(ctx, e.Immediate, o),
		Delayed:    score(ctx, e.Delayed, o),
		Compliance: score(ctx, e.Compliance, o),
		Efficiency: score(ctx, e.Efficiency, o),
	}
}

func score(ctx context.Context, c SignalCalculator, o domain.Outcome) (s float64) {
	if c == nil {
		return 0
	}
	// a panicking calculator scores 0
	defer func() {
		if recover() != nil {
			s = 0
		}
	}()
	return clamp01(c.Score(ctx, o))
}
