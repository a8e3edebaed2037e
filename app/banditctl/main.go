// banditctl runs offline simulations and inspects stored posteriors.
//
// Usage:
//
//	banditctl simulate [--trials=1000] [--seeds=20] [--parallel=4]
//	banditctl inspect [--backend=sqlite] [--action=<id>] [--json]
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "banditctl",
	Short: "Offline tools for the workflow advisor bandit",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
