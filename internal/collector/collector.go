// Package collector implements the daily incremental update job.
//
// One request fetches the full exchange dump; the catalog is upserted and
// today's observation per item is written with the same insert-or-ignore
// contract the backfill uses, so running the job twice in a day is harmless.
package collector

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/rfoster/ge-market-data/internal/model"
)

// DefaultGELimit is assumed when the dump omits an item's buy limit.
const DefaultGELimit = 10000

// SnapshotFetcher retrieves the daily exchange dump.
type SnapshotFetcher interface {
	DailySnapshot(ctx context.Context) (map[int64]model.SnapshotEntry, error)
}

// SnapshotStore persists catalog rows and daily observations.
type SnapshotStore interface {
	EnsureSchema(ctx context.Context) error
	UpsertItems(ctx context.Context, items []model.Item) error
	InsertSnapshotRows(ctx context.Context, obs []model.Observation) (int64, error)
}

// Result summarizes one collector run.
type Result struct {
	Items    int   // Catalog entries upserted
	Inserted int64 // Observations newly written for today
	Date     time.Time
}

// Collector runs the daily snapshot job.
type Collector struct {
	fetcher SnapshotFetcher
	store   SnapshotStore
	logger  *slog.Logger

	now func() time.Time // Injectable clock for tests
}

// New creates a Collector.
func New(fetcher SnapshotFetcher, store SnapshotStore, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{
		fetcher: fetcher,
		store:   store,
		logger:  logger,
		now:     time.Now,
	}
}

// Run executes one daily update: fetch the dump, upsert the catalog, insert
// today's observations. Unlike the backfill there is no per-item isolation;
// the job is a single unit of work and any failure fails the run.
func (c *Collector) Run(ctx context.Context) (Result, error) {
	start := c.now()

	if err := c.store.EnsureSchema(ctx); err != nil {
		return Result{}, fmt.Errorf("ensure schema: %w", err)
	}

	entries, err := c.fetcher.DailySnapshot(ctx)
	if err != nil {
		return Result{}, err
	}

	today := c.today()
	items, obs := Convert(entries, today)

	if err := c.store.UpsertItems(ctx, items); err != nil {
		return Result{}, err
	}

	inserted, err := c.store.InsertSnapshotRows(ctx, obs)
	if err != nil {
		return Result{}, err
	}

	c.logger.Info("daily update complete",
		"date", today.Format("2006-01-02"),
		"items", len(items),
		"inserted", inserted,
		"elapsed", c.now().Sub(start),
	)

	return Result{Items: len(items), Inserted: inserted, Date: today}, nil
}

// Convert turns dump entries into catalog rows and observations for the given
// day, ordered by item id so batches are deterministic. Entries without a
// price were already filtered by the API layer; a missing buy limit falls
// back to DefaultGELimit, and a missing volume stays unknown rather than
// being coerced to zero.
func Convert(entries map[int64]model.SnapshotEntry, day time.Time) ([]model.Item, []model.Observation) {
	ids := make([]int64, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	items := make([]model.Item, 0, len(ids))
	obs := make([]model.Observation, 0, len(ids))

	for _, id := range ids {
		entry := entries[id]

		limit := int64(DefaultGELimit)
		if entry.Limit != nil {
			limit = *entry.Limit
		}

		items = append(items, model.Item{
			ID:      id,
			Name:    entry.Name,
			GELimit: limit,
		})
		obs = append(obs, model.Observation{
			ItemID: id,
			Date:   day,
			Price:  *entry.Price,
			Volume: entry.Volume,
		})
	}

	return items, obs
}

// today returns the current UTC calendar day, matching the backfill's day
// convention.
func (c *Collector) today() time.Time {
	t := c.now().UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
