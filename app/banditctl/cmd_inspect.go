package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"workflowAdvisor/business/bandit"
	"workflowAdvisor/internal/repository"
	"workflowAdvisor/pkg/config"
)

var inspectFlags struct {
	backend  string
	sqlite   string
	name     string
	actionID string
	jsonOut  bool
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the posteriors of a stored snapshot",
	RunE:  runInspect,
}

func init() {
	f := inspectCmd.Flags()
	f.StringVar(&inspectFlags.backend, "backend", "", "sqlite, postgres or redis (default from PERSISTENCE_BACKEND)")
	f.StringVar(&inspectFlags.sqlite, "sqlite-path", "", "SQLite file (default from SQLITE_PATH)")
	f.StringVar(&inspectFlags.name, "name", "", "Snapshot name (default from BANDIT_SNAPSHOT_NAME)")
	f.StringVar(&inspectFlags.actionID, "action", "", "Only show this action")
	f.BoolVar(&inspectFlags.jsonOut, "json", false, "Print rows as JSON")
}

func runInspect(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if inspectFlags.backend != "" {
		cfg.Persistence.Backend = inspectFlags.backend
	}
	if inspectFlags.sqlite != "" {
		cfg.SQLite.Path = inspectFlags.sqlite
	}
	if inspectFlags.name != "" {
		cfg.Persistence.SnapshotName = inspectFlags.name
	}

	if cfg.Persistence.Backend == repository.BackendMemory {
		return fmt.Errorf("backend %q has nothing to inspect", cfg.Persistence.Backend)
	}

	persist, err := repository.OpenBackend(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer persist.Close()

	snap, err := persist.Gateway.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	return printSnapshot(cmd, snap, inspectFlags.actionID, inspectFlags.jsonOut)
}

func printSnapshot(cmd *cobra.Command, snap bandit.Snapshot, actionID string, jsonOut bool) error {
	rows := bandit.DebugSnapshot(snap, actionID)
	out := cmd.OutOrStdout()

	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	fmt.Fprintf(out, "Saved:   %s\n", snap.SavedAt.Format(time.RFC3339))
	fmt.Fprintf(out, "Weights: %s\n", snap.RewardWeightsVersion)
	fmt.Fprintf(out, "Entries: %d\n\n", len(snap.Entries))
	fmt.Fprintf(out, "%-24s %-17s %10s %10s %7s %8s\n", "ACTION", "FINGERPRINT", "ALPHA", "BETA", "MEAN", "SAMPLES")
	for _, r := range rows {
		fmt.Fprintf(out, "%-24s %-17s %10.3f %10.3f %7.3f %8d\n",
			r.ActionID, r.Fingerprint, r.SuccessCount, r.FailureCount, r.Mean, r.TotalSamples)
	}
	return nil
}
