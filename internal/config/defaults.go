package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultHistoryURL  = "https://api.weirdgloop.org/exchange/history/rs/all"
	DefaultSnapshotURL = "https://chisel.weirdgloop.org/gazproj/gazbot/rs_dump.json"
	DefaultUserAgent   = "ge-market-data/1.0"
	DefaultAPITimeout  = 30 * time.Second
	DefaultMaxRetries  = 3

	DefaultDBPort    = 5432
	DefaultDBSSLMode = "prefer"
	DefaultMaxConns  = 10
	DefaultMinConns  = 2

	DefaultWorkers        = 3
	DefaultRateLimit      = 1 * time.Second
	DefaultReportInterval = 100

	DefaultWindowDays = 90
)

func (c *Config) applyDefaults() {
	// API defaults
	if c.API.HistoryURL == "" {
		c.API.HistoryURL = DefaultHistoryURL
	}
	if c.API.SnapshotURL == "" {
		c.API.SnapshotURL = DefaultSnapshotURL
	}
	if c.API.UserAgent == "" {
		c.API.UserAgent = DefaultUserAgent
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}

	// Database defaults
	applyDBDefaults(&c.Database.Postgres)

	// Backfill defaults
	if c.Backfill.Workers == 0 {
		c.Backfill.Workers = DefaultWorkers
	}
	if c.Backfill.RateLimit == 0 {
		c.Backfill.RateLimit = DefaultRateLimit
	}
	if c.Backfill.ReportInterval == 0 {
		c.Backfill.ReportInterval = DefaultReportInterval
	}

	// Stats defaults
	if c.Stats.WindowDays == 0 {
		c.Stats.WindowDays = DefaultWindowDays
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
