package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rfoster/ge-market-data/internal/backfill"
)

func newBackfillCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "backfill",
		Short: "Fetch complete price history for every catalogued item",
		Long: `Backfill fetches the complete daily price history for every item in the
catalog and persists it with insert-or-ignore semantics, so interrupted or
repeated runs are safe to resume.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger().With("run_id", uuid.NewString())

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, pool, st, client, err := setup(ctx, *configPath, logger)
			if err != nil {
				return err
			}
			defer pool.Close()

			runner := backfill.New(
				backfill.Config{
					Workers:        cfg.Backfill.Workers,
					RateLimit:      cfg.Backfill.RateLimit,
					ReportInterval: cfg.Backfill.ReportInterval,
				},
				st,
				client,
				st,
				st,
				backfill.NewConsole(os.Stdout),
				logger,
			)

			_, err = runner.Run(ctx)
			return err
		},
	}
}
