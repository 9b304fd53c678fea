package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/talgya/mini-market/internal/dashboard"
	"github.com/talgya/mini-market/internal/engine"
)

func watchCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run a scenario in an interactive terminal dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			// Log lines would tear the alt screen.
			slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

			sim, _, err := newSimulation(cfg)
			if err != nil {
				return err
			}
			eng := engine.NewEngine()
			eng.MaxTicks = cfg.Ticks
			eng.OnTick = func(tick uint64) { sim.Tick(tick) }

			interval := cfg.Interval
			if interval == 0 {
				interval = 100 * time.Millisecond
			}
			p := tea.NewProgram(dashboard.New(sim, eng, interval), tea.WithAltScreen())
			final, err := p.Run()
			if err != nil {
				return fmt.Errorf("dashboard: %w", err)
			}
			if m, ok := final.(dashboard.Model); ok {
				fmt.Printf("stopped at tick %d, %s\n", m.Tick(), engine.FormatJobs(sim.Snapshot()))
			}
			return nil
		},
	}

	addScenarioFlags(cmd, &opts)
	cmd.Flags().DurationVar(&opts.interval, "interval", 0, "Wall-clock time per tick (default 100ms)")
	return cmd
}
