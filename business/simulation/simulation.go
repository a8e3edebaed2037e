// Package simulation replays synthetic feedback against a bandit engine to
// measure how quickly it settles on the best action.
package simulation

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"workflowAdvisor/business/bandit"
	"workflowAdvisor/domain"
)

type Config struct {
	Trials int
	// Number of suboptimal actions offered alongside the optimal one.
	Suboptimal int
	// Each signal component is set to this value, so the aggregated reward
	// equals it too.
	OptimalReward    float64
	SuboptimalReward float64

	Sampler string
	Seed    uint64
	Context domain.AcquisitionContext
}

func DefaultConfig() Config {
	return Config{
		Trials:           1000,
		Suboptimal:       2,
		OptimalReward:    1.0,
		SuboptimalReward: 0.3,
		Sampler:          bandit.SamplerBeta,
		Seed:             1,
		Context: domain.AcquisitionContext{
			AcquisitionType:       "competitive",
			Phase:                 "solicitation",
			Complexity:            0.5,
			HistoricalSuccessRate: 0.5,
		},
	}
}

type Result struct {
	Seed   uint64 `json:"seed"`
	Trials int    `json:"trials"`
	// Share of the final quarter of trials that picked the optimal action.
	OptimalFractionLastQuarter float64 `json:"optimal_fraction_last_quarter"`
	// Cumulative regret divided by the number of trials.
	RegretRate float64        `json:"regret_rate"`
	Selections map[string]int `json:"selections"`
}

const optimalActionID = "optimal"

// Run drives one engine through cfg.Trials select/update rounds.
func Run(ctx context.Context, cfg Config) (Result, error) {
	if cfg.Trials < 4 {
		return Result{}, fmt.Errorf("trials must be at least 4, got %d", cfg.Trials)
	}

	bc := bandit.DefaultConfig()
	bc.Sampler = cfg.Sampler
	bc.Seed = cfg.Seed

	clock := time.Unix(0, 0).UTC()
	engine, err := bandit.NewEngine(bc, nil, bandit.WithClock(func() time.Time { return clock }))
	if err != nil {
		return Result{}, err
	}

	candidates := []domain.Action{{ID: optimalActionID, Name: "Optimal"}}
	for i := 0; i < cfg.Suboptimal; i++ {
		id := fmt.Sprintf("suboptimal_%d", i+1)
		candidates = append(candidates, domain.Action{ID: id, Name: id})
	}

	res := Result{Seed: cfg.Seed, Trials: cfg.Trials, Selections: make(map[string]int, len(candidates))}
	lastQuarter := cfg.Trials - cfg.Trials/4
	optimalLate := 0
	regret := 0.0

	for i := 0; i < cfg.Trials; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		rec, err := engine.SelectAction(ctx, cfg.Context, candidates)
		if err != nil {
			return Result{}, err
		}
		res.Selections[rec.Action.ID]++

		reward := cfg.SuboptimalReward
		if rec.Action.ID == optimalActionID {
			reward = cfg.OptimalReward
			if i >= lastQuarter {
				optimalLate++
			}
		}
		regret += cfg.OptimalReward - reward

		signal := bandit.RewardSignal{Immediate: reward, Delayed: reward, Compliance: reward, Efficiency: reward}
		if err := engine.UpdateReward(ctx, rec.Action.ID, signal, cfg.Context); err != nil {
			return Result{}, err
		}
		clock = clock.Add(time.Second)
	}

	res.OptimalFractionLastQuarter = float64(optimalLate) / float64(cfg.Trials-lastQuarter)
	res.RegretRate = regret / float64(cfg.Trials)
	return res, nil
}

// RunSeeds runs one simulation per seed, at most parallel at a time.
// Results come back in seed order.
func RunSeeds(ctx context.Context, cfg Config, seeds []uint64, parallel int) ([]Result, error) {
	results := make([]Result, len(seeds))

	g, gCtx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i, seed := range seeds {
		g.Go(func() error {
			c := cfg
			c.Seed = seed
			r, err := Run(gCtx, c)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Summary averages a batch of results.
type Summary struct {
	Runs                 int     `json:"runs"`
	MeanOptimalFraction  float64 `json:"mean_optimal_fraction_last_quarter"`
	WorstOptimalFraction float64 `json:"worst_optimal_fraction_last_quarter"`
	MeanRegretRate       float64 `json:"mean_regret_rate"`
}

func Summarize(results []Result) Summary {
	s := Summary{Runs: len(results), WorstOptimalFraction: 1}
	if len(results) == 0 {
		s.WorstOptimalFraction = 0
		return s
	}
	for _, r := range results {
		s.MeanOptimalFraction += r.OptimalFractionLastQuarter
		s.MeanRegretRate += r.RegretRate
		if r.OptimalFractionLastQuarter < s.WorstOptimalFraction {
			s.WorstOptimalFraction = r.OptimalFractionLastQuarter
		}
	}
	s.MeanOptimalFraction /= float64(len(results))
	s.MeanRegretRate /= float64(len(results))
	return s
}
