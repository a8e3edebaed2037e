package bandit

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"workflowAdvisor/domain"
)

func TestAggregate_Weights(t *testing.T) {
	tests := []struct {
		name                                       string
		immediate, delayed, compliance, efficiency float64
		want                                       float64
	}{
		{"all ones", 1, 1, 1, 1, 1.0},
		{"all zeros", 0, 0, 0, 0, 0.0},
		{"immediate only", 1, 0, 0, 0, 0.4},
		{"delayed only", 0, 1, 0, 0, 0.3},
		{"compliance only", 0, 0, 1, 0, 0.2},
		{"efficiency only", 0, 0, 0, 1, 0.1},
		{"mixed", 0.5, 0.5, 1, 0, 0.55},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.immediate, tt.delayed, tt.compliance, tt.efficiency)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestAggregate_WeightsSumToOne(t *testing.T) {
	assert.InDelta(t, 1.0, WeightImmediate+WeightDelayed+WeightCompliance+WeightEfficiency, 1e-12)
}

func TestAggregate_ClampsOutOfRangeInputs(t *testing.T) {
	assert.InDelta(t, 1.0, Aggregate(5, 5, 5, 5), 1e-12)
	assert.InDelta(t, 0.0, Aggregate(-1, -1, -1, -1), 1e-12)
	assert.InDelta(t, 0.6, Aggregate(math.NaN(), 1, 1, 1), 1e-12)
}

func TestRewardSignal_Total(t *testing.T) {
	s := RewardSignal{Immediate: 1, Delayed: 0.5, Compliance: 0.5, Efficiency: 0}
	assert.InDelta(t, 0.65, s.Total(), 1e-12)
}

func ptr[T any](v T) *T { return &v }

func TestOutcomeEvaluator_Defaults(t *testing.T) {
	ev := NewOutcomeEvaluator()
	ctx := context.Background()

	full := domain.Outcome{
		Accepted:             ptr(true),
		DownstreamIssues:     ptr(0),
		ComplianceViolations: ptr(0),
		ExpectedDuration:     ptr(2 * time.Hour),
		ActualDuration:       ptr(time.Hour),
	}
	got := ev.Evaluate(ctx, full)
	assert.Equal(t, RewardSignal{Immediate: 1, Delayed: 1, Compliance: 1, Efficiency: 1}, got)

	partial := domain.Outcome{
		Accepted:             ptr(true),
		Modified:             true,
		DownstreamIssues:     ptr(3),
		ComplianceViolations: ptr(2),
		ExpectedDuration:     ptr(time.Hour),
		ActualDuration:       ptr(4 * time.Hour),
	}
	got = ev.Evaluate(ctx, partial)
	assert.InDelta(t, 0.6, got.Immediate, 1e-12)
	assert.InDelta(t, 0.25, got.Delayed, 1e-12)
	assert.InDelta(t, 0.25, got.Compliance, 1e-12)
	assert.InDelta(t, 0.25, got.Efficiency, 1e-12)
}

func TestOutcomeEvaluator_FailsClosedOnMissingData(t *testing.T) {
	got := NewOutcomeEvaluator().Evaluate(context.Background(), domain.Outcome{})
	assert.Equal(t, RewardSignal{}, got)
	assert.Equal(t, 0.0, got.Total())

	rejected := NewOutcomeEvaluator().Evaluate(context.Background(), domain.Outcome{Accepted: ptr(false)})
	assert.Equal(t, 0.0, rejected.Immediate)

	badDurations := domain.Outcome{ExpectedDuration: ptr(time.Duration(0)), ActualDuration: ptr(time.Hour)}
	assert.Equal(t, 0.0, EfficiencyCalculator{}.Score(context.Background(), badDurations))
}

func TestOutcomeEvaluator_PluggableCalculators(t *testing.T) {
	ev := OutcomeEvaluator{
		Immediate: SignalCalculatorFunc(func(context.Context, domain.Outcome) float64 { return 2 }),
		Delayed: SignalCalculatorFunc(func(context.Context, domain.Outcome) float64 {
			panic("downstream tracker unavailable")
		}),
		// Compliance and Efficiency left nil
	}

	got := ev.Evaluate(context.Background(), domain.Outcome{})
	assert.Equal(t, RewardSignal{Immediate: 1}, got)
}
