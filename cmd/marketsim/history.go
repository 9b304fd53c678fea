package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/mini-market/internal/persistence"
)

func historyCmd() *cobra.Command {
	var dbPath, runID, good, job string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print saved price or job history for a run",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if good == "" && job == "" {
				return fmt.Errorf("one of --good or --job is required")
			}
			db, err := persistence.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			if runID == "" {
				run, err := db.LatestRun()
				if err != nil {
					return fmt.Errorf("no runs recorded: %w", err)
				}
				runID = run.ID
			}

			if good != "" {
				return printPriceHistory(db, runID, good)
			}
			return printJobHistory(db, runID, job)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "data/market.db", "SQLite run history file")
	cmd.Flags().StringVar(&runID, "run", "", "Run ID (default: latest)")
	cmd.Flags().StringVar(&good, "good", "", "Good to print prices for")
	cmd.Flags().StringVar(&job, "job", "", "Job to print headcounts for")
	return cmd
}

func runsCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			db, err := persistence.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			runs, err := db.Runs()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RUN\tSEED\tSTARTED")
			for _, r := range runs {
				started := r.StartedAt
				if t, err := time.Parse(time.RFC3339, r.StartedAt); err == nil {
					started = humanize.Time(t)
				}
				fmt.Fprintf(w, "%s\t%d\t%s\n", r.ID, r.Seed, started)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "data/market.db", "SQLite run history file")
	return cmd
}

func printPriceHistory(db *persistence.DB, runID, good string) error {
	points, err := db.PriceHistory(runID, good)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		return fmt.Errorf("no price history for %q in run %s", good, runID)
	}

	fmt.Printf("%s prices, run %s\n\n", good, runID)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "TICK\tCOST\tEQUILIBRIUM\tINVENTORY\tPRODUCED\tCONSUMED\t")
	for _, p := range points {
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%s\t%.2f\t%.2f\t\n",
			humanize.Comma(int64(p.Tick)),
			p.Cost, p.EquilibriumCost,
			humanize.CommafWithDigits(p.Inventory, 2),
			p.Production, p.Consumption,
		)
	}
	return w.Flush()
}

func printJobHistory(db *persistence.DB, runID, job string) error {
	points, err := db.JobHistory(runID, job)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		return fmt.Errorf("no job history for %q in run %s", job, runID)
	}

	fmt.Printf("%s headcount, run %s\n\n", job, runID)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "TICK\tCOUNT\t")
	for _, p := range points {
		fmt.Fprintf(w, "%s\t%d\t\n", humanize.Comma(int64(p.Tick)), p.Count)
	}
	return w.Flush()
}
