package bandit

import (
	"context"
	"fmt"

	"workflowAdvisor/domain"
)

type Config struct {
	// Beta prior for freshly created posteriors
	PriorAlpha float64
	PriorBeta  float64

	// "beta" (exact) or "normal" (legacy approximation)
	Sampler string
	Seed    uint64

	// Grid step applied to feature values before fingerprinting; 0 hashes exact values.
	FingerprintResolution float64

	// Upper bound on stored posteriors; 0 keeps everything.
	MaxPosteriors int

	Rationale string
}

const (
	defaultPriorAlpha = 1.0
	defaultPriorBeta  = 1.0
	defaultRationale  = "Thompson Sampling Action Selection"
)

func DefaultConfig() Config {
	return Config{
		PriorAlpha: defaultPriorAlpha,
		PriorBeta:  defaultPriorBeta,
		Sampler:    SamplerBeta,
		Seed:       1,
		Rationale:  defaultRationale,
	}
}

func (c Config) validate() error {
	if c.PriorAlpha <= 0 || c.PriorBeta <= 0 {
		return fmt.Errorf("prior must be positive, got alpha=%v beta=%v", c.PriorAlpha, c.PriorBeta)
	}
	if c.Sampler != "" && c.Sampler != SamplerBeta && c.Sampler != SamplerNormal {
		return fmt.Errorf("unknown sampler %q", c.Sampler)
	}
	if c.FingerprintResolution < 0 {
		return fmt.Errorf("fingerprint resolution must be >= 0, got %v", c.FingerprintResolution)
	}
	if c.MaxPosteriors < 0 {
		return fmt.Errorf("max posteriors must be >= 0, got %d", c.MaxPosteriors)
	}
	return nil
}

// EventLog receives an audit row for every applied reward. SaveEvent is
// called with the engine lock held, one call at a time and in mutation
// order, so it must not call back into the engine.
type EventLog interface {
	SaveEvent(ctx context.Context, event domain.FeedbackEvent) error
}
