package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rfoster/ge-market-data/internal/collector"
)

func newCollectCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "collect",
		Short: "Run the daily snapshot update",
		Long: `Collect downloads the daily exchange dump once, upserts the item catalog,
and records today's price and volume per item. Designed to run from cron;
re-running within the same day inserts nothing new.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			_, pool, st, client, err := setup(ctx, *configPath, logger)
			if err != nil {
				return err
			}
			defer pool.Close()

			c := collector.New(client, st, logger)
			result, err := c.Run(ctx)
			if err != nil {
				return err
			}

			logger.Info("collect finished",
				"date", result.Date.Format("2006-01-02"),
				"items", result.Items,
				"inserted", result.Inserted,
			)
			return nil
		},
	}
}
