package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"workflowAdvisor/business/simulation"
)

var simulateFlags struct {
	trials     int
	seeds      int
	firstSeed  uint64
	parallel   int
	sampler    string
	suboptimal int
	jsonOut    bool
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Replay synthetic feedback and report convergence",
	RunE:  runSimulate,
}

func init() {
	f := simulateCmd.Flags()
	f.IntVar(&simulateFlags.trials, "trials", 1000, "Select/update rounds per run")
	f.IntVar(&simulateFlags.seeds, "seeds", 20, "Number of runs, one per seed")
	f.Uint64Var(&simulateFlags.firstSeed, "first-seed", 1, "Seed of the first run")
	f.IntVar(&simulateFlags.parallel, "parallel", 4, "Runs in flight at once")
	f.StringVar(&simulateFlags.sampler, "sampler", "beta", "Posterior sampler: beta or normal")
	f.IntVar(&simulateFlags.suboptimal, "suboptimal", 2, "Suboptimal actions offered with the optimal one")
	f.BoolVar(&simulateFlags.jsonOut, "json", false, "Print results as JSON")
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	if simulateFlags.seeds <= 0 {
		return fmt.Errorf("--seeds must be positive")
	}

	cfg := simulation.DefaultConfig()
	cfg.Trials = simulateFlags.trials
	cfg.Sampler = simulateFlags.sampler
	cfg.Suboptimal = simulateFlags.suboptimal

	seeds := make([]uint64, simulateFlags.seeds)
	for i := range seeds {
		seeds[i] = simulateFlags.firstSeed + uint64(i)
	}

	results, err := simulation.RunSeeds(cmd.Context(), cfg, seeds, simulateFlags.parallel)
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}
	summary := simulation.Summarize(results)

	out := cmd.OutOrStdout()
	if simulateFlags.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Summary simulation.Summary  `json:"summary"`
			Runs    []simulation.Result `json:"runs"`
		}{summary, results})
	}

	fmt.Fprintf(out, "%-8s %-12s %-10s\n", "SEED", "OPT_LAST_Q", "REGRET")
	for _, r := range results {
		fmt.Fprintf(out, "%-8d %-12.3f %-10.4f\n", r.Seed, r.OptimalFractionLastQuarter, r.RegretRate)
	}
	fmt.Fprintf(out, "\nRuns:              %d\n", summary.Runs)
	fmt.Fprintf(out, "Mean optimal (Q4): %.3f\n", summary.MeanOptimalFraction)
	fmt.Fprintf(out, "Worst optimal (Q4): %.3f\n", summary.WorstOptimalFraction)
	fmt.Fprintf(out, "Mean regret rate:  %.4f\n", summary.MeanRegretRate)
	return nil
}
