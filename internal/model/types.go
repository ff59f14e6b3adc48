package model

import "time"

// -----------------------------------------------------------------------------
// Catalog Types
// -----------------------------------------------------------------------------

// Item is one tradeable entity in the exchange catalog.
type Item struct {
	ID      int64  // Primary key, externally assigned by the exchange
	Name    string // Display name
	GELimit int64  // Per-window purchase limit
}

// -----------------------------------------------------------------------------
// History Types
// -----------------------------------------------------------------------------

// Observation is one day's closing price (and optional traded volume) for one
// item. At most one observation exists per (ItemID, Date); the history table
// enforces this with its composite primary key.
type Observation struct {
	ItemID int64
	Date   time.Time // Calendar day, UTC midnight
	Price  int64
	Volume *int64 // nil when the exchange reports no volume
}

// RawRecord is a single entry of an item's history as returned by the remote
// API. Required fields are pointers so that absent keys are distinguishable
// from zero values; records missing Timestamp or Price are dropped during
// normalization.
type RawRecord struct {
	Timestamp *int64 `json:"timestamp"` // Milliseconds since Unix epoch
	Price     *int64 `json:"price"`
	Volume    *int64 `json:"volume,omitempty"`
}

// SnapshotEntry is one item's row in the daily exchange dump.
type SnapshotEntry struct {
	Name   string `json:"name"`
	Price  *int64 `json:"price"`
	Limit  *int64 `json:"limit,omitempty"`
	Volume *int64 `json:"volume,omitempty"`
}

// -----------------------------------------------------------------------------
// Backfill Types
// -----------------------------------------------------------------------------

// ItemResult is the outcome of one item's fetch-normalize-persist pass.
// Exactly one result is produced per dispatched item, in completion order.
type ItemResult struct {
	ItemID   int64
	Records  int   // Raw records returned by the API
	Dropped  int   // Records discarded during normalization
	Inserted int64 // Rows newly written to the store
	Err      error // Fetch or persist failure, nil on success
}

// Failed reports whether the item terminated in the failed state.
func (r ItemResult) Failed() bool {
	return r.Err != nil
}

// HistoryStats summarizes the history table after a run.
type HistoryStats struct {
	Earliest      time.Time
	Latest        time.Time
	Rows          int64
	DistinctItems int64
}

// RowsPerItem returns the average number of history rows per distinct item,
// or zero for an empty table.
func (s HistoryStats) RowsPerItem() float64 {
	if s.DistinctItems == 0 {
		return 0
	}
	return float64(s.Rows) / float64(s.DistinctItems)
}

// ItemSnapshot is one joined (item, observation) row used by the analysis
// commands. Volume is zero when the stored value is NULL.
type ItemSnapshot struct {
	ItemID  int64
	Name    string
	GELimit int64
	Date    time.Time
	Price   int64
	Volume  int64
}
