package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/mini-market/internal/economy"
	"github.com/talgya/mini-market/internal/engine"
	"github.com/talgya/mini-market/internal/persistence"
)

func replayCmd() *cobra.Command {
	var good string
	var every uint64

	cmd := &cobra.Command{
		Use:   "replay [archive]",
		Short: "Print a good's prices from a snapshot archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if every == 0 {
				every = 1
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(w, "TICK\tCOST\tSTOCK\tJOBS\t")

			rows := 0
			header, err := persistence.ReadArchive(args[0], func(snap economy.Snapshot) error {
				if snap.Tick%every != 0 {
					return nil
				}
				g, ok := snap.Goods[good]
				if !ok {
					return fmt.Errorf("good %q not in archive", good)
				}
				rows++
				_, err := fmt.Fprintf(w, "%s\t%.3f\t%s\t%s\t\n",
					humanize.Comma(int64(snap.Tick)), g.Price.Cost,
					humanize.CommafWithDigits(g.Inventory, 2), engine.FormatJobs(snap))
				return err
			})
			if err != nil {
				return err
			}
			fmt.Printf("%s, seed %d, run %q\n\n", good, header.Seed, header.RunID)
			if rows == 0 {
				fmt.Println("no ticks recorded")
				return nil
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&good, "good", "Fish", "Good to print")
	cmd.Flags().Uint64Var(&every, "every", 1, "Print every Nth tick")
	return cmd
}
