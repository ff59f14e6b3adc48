package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rfoster/ge-market-data/internal/model"
)

// InsertObservations writes one item's observations using insert-or-ignore
// semantics keyed on (item_id, record_date). Rows whose day already exists
// are left untouched, which is what makes repeated backfill runs safe to
// resume. Returns the count of rows actually written.
//
// The whole batch commits in one transaction under the store's write gate,
// so a failure mid-batch leaves no partial rows and other items' writes are
// unaffected.
func (s *Store) InsertObservations(ctx context.Context, itemID int64, obs []model.Observation) (int64, error) {
	inserted, err := s.insertHistory(ctx, obs)
	if err != nil {
		return 0, fmt.Errorf("insert history for item %d: %w", itemID, err)
	}
	return inserted, nil
}

// InsertSnapshotRows writes one day's observations across many items with
// the same insert-or-ignore semantics. Used by the daily collector.
func (s *Store) InsertSnapshotRows(ctx context.Context, obs []model.Observation) (int64, error) {
	inserted, err := s.insertHistory(ctx, obs)
	if err != nil {
		return 0, fmt.Errorf("insert snapshot rows: %w", err)
	}
	return inserted, nil
}

// insertHistory commits one batch of history rows in a single transaction
// under the write gate.
func (s *Store) insertHistory(ctx context.Context, obs []model.Observation) (int64, error) {
	if len(obs) == 0 {
		return 0, nil
	}

	batch := buildHistoryBatch(obs)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var inserted int64
	results := tx.SendBatch(ctx, batch)
	for range obs {
		ct, err := results.Exec()
		if err != nil {
			results.Close()
			return 0, err
		}
		inserted += ct.RowsAffected()
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	return inserted, nil
}

// buildHistoryBatch queues one insert per observation with ON CONFLICT DO
// NOTHING, so RowsAffected distinguishes new rows from already-stored days.
func buildHistoryBatch(obs []model.Observation) *pgx.Batch {
	batch := &pgx.Batch{}
	for _, o := range obs {
		batch.Queue(`
			INSERT INTO history (item_id, record_date, price, volume)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (item_id, record_date) DO NOTHING
		`, o.ItemID, o.Date, o.Price, o.Volume)
	}
	return batch
}

// HistoryStats returns aggregate statistics over the whole history table.
func (s *Store) HistoryStats(ctx context.Context) (model.HistoryStats, error) {
	var stats model.HistoryStats

	err := s.db.QueryRow(ctx, `
		SELECT
			COALESCE(MIN(record_date), 'epoch'::date),
			COALESCE(MAX(record_date), 'epoch'::date),
			COUNT(*),
			COUNT(DISTINCT item_id)
		FROM history
	`).Scan(&stats.Earliest, &stats.Latest, &stats.Rows, &stats.DistinctItems)
	if err != nil {
		return model.HistoryStats{}, fmt.Errorf("query history stats: %w", err)
	}

	return stats, nil
}

// Snapshots loads the last windowDays of history joined with the catalog,
// ordered by date, for the analysis commands.
func (s *Store) Snapshots(ctx context.Context, windowDays int) ([]model.ItemSnapshot, error) {
	rows, err := s.db.Query(ctx, `
		SELECT i.id, i.name, COALESCE(i.ge_limit, 0), h.record_date, h.price, COALESCE(h.volume, 0)
		FROM history h
		JOIN items i ON h.item_id = i.id
		WHERE h.record_date >= CURRENT_DATE - $1::int
		ORDER BY h.record_date
	`, windowDays)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []model.ItemSnapshot
	for rows.Next() {
		var snap model.ItemSnapshot
		if err := rows.Scan(&snap.ItemID, &snap.Name, &snap.GELimit, &snap.Date, &snap.Price, &snap.Volume); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}

	return snaps, nil
}
