// Package cli wires the gemarket subcommands: the historical backfill, the
// daily collector, and the analysis report.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rfoster/ge-market-data/internal/api"
	"github.com/rfoster/ge-market-data/internal/config"
	"github.com/rfoster/ge-market-data/internal/database"
	"github.com/rfoster/ge-market-data/internal/store"
	"github.com/rfoster/ge-market-data/internal/version"
)

// NewRootCmd builds the gemarket command tree.
func NewRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:     "gemarket",
		Short:   "GE market data ingestion tools",
		Version: version.String(),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Optional .env for local development; config files reference
			// secrets through ${VAR} expansion.
			_ = godotenv.Load()
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "configs/gemarket.yaml", "path to config file")

	root.AddCommand(
		newBackfillCmd(&configPath),
		newCollectCmd(&configPath),
		newStatsCmd(&configPath),
	)

	return root
}

// newLogger builds the shared structured logger.
func newLogger() *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	return logger
}

// setup loads config, connects the database, and builds the shared
// dependencies every subcommand needs. A failure here is a fatal setup
// failure: nothing has been dispatched yet.
func setup(ctx context.Context, configPath string, logger *slog.Logger) (*config.Config, *pgxpool.Pool, *store.Store, *api.Client, error) {
	cfg, err := config.LoadAndValidate(configPath)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	pool, err := database.Connect(ctx, cfg.Database.Postgres)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("connect database: %w", err)
	}

	st := store.New(pool, logger)

	client := api.NewClient(
		cfg.API.HistoryURL,
		cfg.API.SnapshotURL,
		cfg.API.UserAgent,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, time.Second),
	)

	return cfg, pool, st, client, nil
}
