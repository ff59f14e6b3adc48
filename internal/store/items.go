package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rfoster/ge-market-data/internal/model"
)

// ItemIDs returns every item id in the catalog, ascending, no duplicates.
// An error here is fatal to the backfill: there is no work set without it.
func (s *Store) ItemIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.Query(ctx, `SELECT id FROM items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query item ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan item id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate item ids: %w", err)
	}

	return ids, nil
}

// UpsertItems inserts or updates catalog rows. Unlike history rows, item
// names and limits do change, so conflicts update in place.
func (s *Store) UpsertItems(ctx context.Context, items []model.Item) error {
	if len(items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(`
			INSERT INTO items (id, name, ge_limit)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, ge_limit = EXCLUDED.ge_limit
		`, it.ID, it.Name, it.GELimit)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin items upsert: %w", err)
	}
	defer tx.Rollback(ctx)

	results := tx.SendBatch(ctx, batch)
	for range items {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("upsert item: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("close items batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit items upsert: %w", err)
	}

	return nil
}

// EnsureSchema creates the catalog and history tables if they do not exist.
// Used by the daily collector; the backfill assumes an already-provisioned
// store and fails fast instead.
func (s *Store) EnsureSchema(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS items (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			ge_limit BIGINT
		)`,
		`CREATE TABLE IF NOT EXISTS history (
			item_id BIGINT NOT NULL,
			record_date DATE NOT NULL,
			price BIGINT NOT NULL,
			volume BIGINT,
			PRIMARY KEY (item_id, record_date)
		)`,
	}

	for _, stmt := range ddl {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	return nil
}
