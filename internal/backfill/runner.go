package backfill

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rfoster/ge-market-data/internal/model"
	"github.com/rfoster/ge-market-data/internal/normalize"
)

// ItemSource enumerates the items to backfill.
type ItemSource interface {
	ItemIDs(ctx context.Context) ([]int64, error)
}

// HistoryFetcher retrieves one item's complete observation history.
type HistoryFetcher interface {
	ItemHistory(ctx context.Context, itemID int64) ([]model.RawRecord, error)
}

// ObservationStore persists normalized observations.
type ObservationStore interface {
	InsertObservations(ctx context.Context, itemID int64, obs []model.Observation) (int64, error)
}

// StatsSource reports aggregate store statistics after a run. Optional.
type StatsSource interface {
	HistoryStats(ctx context.Context) (model.HistoryStats, error)
}

// Config holds backfill runner settings.
type Config struct {
	Workers        int           // Concurrent workers (default: 3)
	RateLimit      time.Duration // Per-worker delay after each item (default: 1s)
	ReportInterval int           // Completions between progress blocks (default: 100)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:        3,
		RateLimit:      time.Second,
		ReportInterval: 100,
	}
}

// Summary aggregates the outcome of a backfill run.
type Summary struct {
	Total       int           // Items in the work set
	Processed   int           // Items that reached a terminal state
	Errors      int           // Items that failed fetch or persist
	Records     int           // Raw records fetched across all items
	Dropped     int           // Records discarded during normalization
	Inserted    int64         // Rows newly written
	Elapsed     time.Duration // Wall-clock duration of the run
	Interrupted bool          // True when the run was cancelled mid-flight
}

// ItemsPerSec returns the average completion rate, or zero for an instant or
// empty run.
func (s Summary) ItemsPerSec() float64 {
	if s.Elapsed <= 0 || s.Processed == 0 {
		return 0
	}
	return float64(s.Processed) / s.Elapsed.Seconds()
}

// Runner drives the bounded-concurrency historical backfill. Each worker
// pulls one pending item at a time and carries it through fetch, normalize,
// and persist before sleeping the rate-limit delay and taking the next.
type Runner struct {
	cfg     Config
	items   ItemSource
	fetcher HistoryFetcher
	store   ObservationStore
	stats   StatsSource
	console *Console
	logger  *slog.Logger
}

// New creates a Runner. stats may be nil to skip the post-run statistics
// block; console may be nil to silence progress output.
func New(cfg Config, items ItemSource, fetcher HistoryFetcher, store ObservationStore, stats StatsSource, console *Console, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if console == nil {
		console = NewConsole(nil)
	}
	if cfg.Workers < 1 {
		cfg.Workers = DefaultConfig().Workers
	}
	if cfg.ReportInterval < 1 {
		cfg.ReportInterval = DefaultConfig().ReportInterval
	}
	return &Runner{
		cfg:     cfg,
		items:   items,
		fetcher: fetcher,
		store:   store,
		stats:   stats,
		console: console,
		logger:  logger,
	}
}

// Run executes the backfill to completion or cancellation. Item-level
// failures are aggregated, never returned; only setup failures (an
// unreachable item source) produce an error.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	ids, err := r.items.ItemIDs(ctx)
	if err != nil {
		return Summary{}, err
	}

	total := len(ids)
	r.console.Start(total, r.cfg.Workers)
	r.logger.Info("backfill starting", "items", total, "workers", r.cfg.Workers)

	if total == 0 {
		summary := Summary{}
		r.console.FinalSummary(summary)
		return summary, nil
	}

	jobs := make(chan int64)
	results := make(chan model.ItemResult)

	// Dispatcher: feeds pending items until the set is exhausted or the run
	// is cancelled. Cancellation stops dispatch; it never aborts an item a
	// worker has already taken.
	go func() {
		defer close(jobs)
		for _, id := range ids {
			select {
			case jobs <- id:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Fixed worker pool.
	var g errgroup.Group
	for w := 0; w < r.cfg.Workers; w++ {
		g.Go(func() error {
			for id := range jobs {
				results <- r.processItem(ctx, id)

				// Courtesy rate limit toward the remote API, per worker.
				select {
				case <-time.After(r.cfg.RateLimit):
				case <-ctx.Done():
					return nil
				}
			}
			return nil
		})
	}

	go func() {
		g.Wait()
		close(results)
	}()

	// Drain completions in completion order, which is not submission order.
	var summary Summary
	summary.Total = total
	start := time.Now()

	for res := range results {
		summary.Processed++
		if res.Failed() {
			summary.Errors++
		} else {
			summary.Records += res.Records
			summary.Dropped += res.Dropped
			summary.Inserted += res.Inserted
		}

		r.console.ItemLine(summary.Processed, total, res)

		if summary.Processed%r.cfg.ReportInterval == 0 {
			r.console.ProgressBlock(summary.Processed, total, time.Since(start), summary.Inserted)
		}
	}

	summary.Elapsed = time.Since(start)
	summary.Interrupted = ctx.Err() != nil

	if summary.Interrupted {
		r.console.Interrupted()
		r.logger.Warn("backfill interrupted",
			"processed", summary.Processed,
			"total", total,
		)
	}

	r.console.FinalSummary(summary)
	r.logger.Info("backfill finished",
		"processed", summary.Processed,
		"errors", summary.Errors,
		"records", summary.Records,
		"inserted", summary.Inserted,
		"dropped", summary.Dropped,
		"elapsed", summary.Elapsed,
	)

	r.reportStoreStats(ctx)

	return summary, nil
}

// processItem carries one item through fetch, normalize, persist. All
// failures are converted into the result; nothing escapes to abort the batch.
func (r *Runner) processItem(ctx context.Context, itemID int64) model.ItemResult {
	records, err := r.fetcher.ItemHistory(ctx, itemID)
	if err != nil {
		r.logger.Warn("fetch failed", "item_id", itemID, "err", err)
		return model.ItemResult{ItemID: itemID, Err: err}
	}

	obs, dropped := normalize.Records(itemID, records)

	// Once an item's write has started it is allowed to commit even if the
	// run is cancelled, so the store never holds a partial batch.
	inserted, err := r.store.InsertObservations(context.WithoutCancel(ctx), itemID, obs)
	if err != nil {
		r.logger.Warn("persist failed", "item_id", itemID, "err", err)
		return model.ItemResult{ItemID: itemID, Records: len(records), Dropped: dropped, Err: err}
	}

	return model.ItemResult{
		ItemID:   itemID,
		Records:  len(records),
		Dropped:  dropped,
		Inserted: inserted,
	}
}

// reportStoreStats prints the post-run statistics block. Failures here are
// logged, not fatal: the run itself already completed.
func (r *Runner) reportStoreStats(ctx context.Context) {
	if r.stats == nil {
		return
	}

	stats, err := r.stats.HistoryStats(context.WithoutCancel(ctx))
	if err != nil {
		r.logger.Warn("post-run stats query failed", "err", err)
		return
	}

	r.console.StatsBlock(stats)
}
