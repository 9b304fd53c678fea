package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/talgya/mini-market/internal/config"
)

func scenarioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenario",
		Short: "Print the built-in scenario as YAML",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg := config.Default()
			cfg.ApplyDefaults()
			out, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(out)
			return err
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [scenario.yaml]",
		Short: "Check a scenario file without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}
			agents := 0
			for _, p := range cfg.Populations {
				agents += p.Count
			}
			fmt.Printf("ok: %d goods, %d populations, %d agents\n", len(cfg.Goods), len(cfg.Populations), agents)
			for _, name := range cfg.UnproducedGoods() {
				fmt.Printf("warning: good %q is consumed but never produced\n", name)
			}
			return nil
		},
	}
}
