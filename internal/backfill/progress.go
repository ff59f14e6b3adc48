package backfill

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rfoster/ge-market-data/internal/model"
)

const rule = 60

// Console renders the user-facing progress lines and summary blocks. All
// output goes to a single writer so runs are easy to tee and grep; a nil
// writer discards everything, which the tests rely on.
type Console struct {
	w io.Writer
}

// NewConsole creates a Console writing to w. A nil w silences output.
func NewConsole(w io.Writer) *Console {
	if w == nil {
		w = io.Discard
	}
	return &Console{w: w}
}

// Start prints the run header.
func (c *Console) Start(total, workers int) {
	fmt.Fprintln(c.w, "Starting historical data backfill...")
	fmt.Fprintln(c.w, strings.Repeat("=", rule))
	fmt.Fprintf(c.w, "Found %d items in database\n", total)
	fmt.Fprintf(c.w, "Using %d parallel workers\n", workers)
	fmt.Fprintln(c.w, strings.Repeat("=", rule))
}

// ItemLine prints one completion line in completion order.
func (c *Console) ItemLine(processed, total int, res model.ItemResult) {
	if res.Failed() {
		fmt.Fprintf(c.w, "[%d/%d] item %d: ERROR - %v\n", processed, total, res.ItemID, res.Err)
		return
	}
	fmt.Fprintf(c.w, "[%d/%d] item %d: %d records (%d new)\n",
		processed, total, res.ItemID, res.Records, res.Inserted)
}

// ProgressBlock prints the periodic throughput and ETA block.
func (c *Console) ProgressBlock(processed, total int, elapsed time.Duration, inserted int64) {
	itemsPerSec := 0.0
	if elapsed > 0 {
		itemsPerSec = float64(processed) / elapsed.Seconds()
	}

	etaMinutes := 0.0
	if itemsPerSec > 0 {
		etaMinutes = float64(total-processed) / itemsPerSec / 60
	}

	fmt.Fprintln(c.w, strings.Repeat("-", rule))
	fmt.Fprintf(c.w, "Progress: %d/%d (%.1f%%)\n", processed, total, 100*float64(processed)/float64(total))
	fmt.Fprintf(c.w, "Speed: %.1f items/sec\n", itemsPerSec)
	fmt.Fprintf(c.w, "ETA: %.1f minutes\n", etaMinutes)
	fmt.Fprintf(c.w, "New records inserted: %d\n", inserted)
	fmt.Fprintln(c.w, strings.Repeat("-", rule))
}

// Interrupted prints the cancellation notice.
func (c *Console) Interrupted() {
	fmt.Fprintln(c.w)
	fmt.Fprintln(c.w, "Backfill interrupted")
}

// FinalSummary prints the end-of-run block. It renders even for an empty or
// fully failed run, distinguishing "ran with failures" from "crashed".
func (c *Console) FinalSummary(s Summary) {
	fmt.Fprintln(c.w, strings.Repeat("=", rule))
	fmt.Fprintln(c.w, "BACKFILL COMPLETE")
	fmt.Fprintln(c.w, strings.Repeat("=", rule))
	fmt.Fprintf(c.w, "Total time: %.1f minutes (%.0f seconds)\n", s.Elapsed.Minutes(), s.Elapsed.Seconds())
	fmt.Fprintf(c.w, "Speed: %.1f items/second\n", s.ItemsPerSec())
	fmt.Fprintf(c.w, "Total items processed: %d\n", s.Processed)
	fmt.Fprintf(c.w, "Items with errors: %d\n", s.Errors)
	fmt.Fprintf(c.w, "Total records fetched: %d\n", s.Records)
	fmt.Fprintf(c.w, "Records dropped as malformed: %d\n", s.Dropped)
	fmt.Fprintf(c.w, "New history records inserted: %d\n", s.Inserted)
	fmt.Fprintln(c.w, strings.Repeat("=", rule))
}

// StatsBlock prints the post-run store statistics.
func (c *Console) StatsBlock(stats model.HistoryStats) {
	fmt.Fprintln(c.w)
	fmt.Fprintln(c.w, "Database Statistics After Backfill:")
	fmt.Fprintf(c.w, "Date range: %s to %s\n",
		stats.Earliest.Format("2006-01-02"), stats.Latest.Format("2006-01-02"))
	fmt.Fprintf(c.w, "Total records: %d\n", stats.Rows)
	fmt.Fprintf(c.w, "Unique items: %d\n", stats.DistinctItems)
	fmt.Fprintf(c.w, "Average records per item: %.1f\n", stats.RowsPerItem())
	fmt.Fprintln(c.w, strings.Repeat("=", rule))
}
