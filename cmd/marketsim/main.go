// Command marketsim runs the agent market simulation.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "marketsim",
		Short: "Agent-based market simulation with emergent prices and professions",
	}

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(scenarioCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(runsCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(replayCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
