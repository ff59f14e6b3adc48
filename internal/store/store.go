package store

import (
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides serialized access to the items and history tables.
//
// All writes go through a single mutex so no two batch inserts interleave.
// Reads (the post-run statistics, the analysis queries) run outside the gate;
// callers sequence them after writers have finished.
type Store struct {
	db      *pgxpool.Pool
	writeMu sync.Mutex
	logger  *slog.Logger
}

// New creates a Store over an existing connection pool.
func New(db *pgxpool.Pool, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		db:     db,
		logger: logger,
	}
}
