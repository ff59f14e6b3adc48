package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rfoster/ge-market-data/internal/stats"
)

func newStatsCmd(configPath *string) *cobra.Command {
	var topN int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Report per-item price aggregates over the configured window",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, pool, st, _, err := setup(ctx, *configPath, logger)
			if err != nil {
				return err
			}
			defer pool.Close()

			hist, err := st.HistoryStats(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("History: %d rows, %d items, %s to %s (%.1f rows/item)\n\n",
				hist.Rows, hist.DistinctItems,
				hist.Earliest.Format("2006-01-02"), hist.Latest.Format("2006-01-02"),
				hist.RowsPerItem(),
			)

			snaps, err := st.Snapshots(ctx, cfg.Stats.WindowDays)
			if err != nil {
				return err
			}

			results := stats.Build(snaps)
			if len(results) > topN {
				results = results[:topN]
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPRICE\tPREV\tTREND\tQ10\tQ50\tQ90\tAVG VOL\tDAYS")
			for _, r := range results {
				fmt.Fprintf(w, "%d\t%s\t%.0f\t%.0f\t%+.1f\t%.0f\t%.0f\t%.0f\t%.0f\t%d\n",
					r.ItemID, r.Name, r.CurrentPrice, r.PrevPrice, r.PriceTrend,
					r.Q10, r.Q50, r.Q90, r.AvgVolume, r.DataPoints,
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&topN, "top", 50, "maximum items to list")

	return cmd
}
