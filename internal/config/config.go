package config

import "time"

// Config is the root configuration for the GE market data tools.
type Config struct {
	Instance InstanceConfig `yaml:"instance"`
	API      APIConfig      `yaml:"api"`
	Database DatabaseConfig `yaml:"database"`
	Backfill BackfillConfig `yaml:"backfill"`
	Stats    StatsConfig    `yaml:"stats"`
}

// InstanceConfig identifies this deployment.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// APIConfig holds remote exchange API settings.
type APIConfig struct {
	HistoryURL  string        `yaml:"history_url"`  // Per-item full history endpoint
	SnapshotURL string        `yaml:"snapshot_url"` // Daily catalog dump endpoint
	UserAgent   string        `yaml:"user_agent"`   // Client-identifying header, required by the API operator
	Timeout     time.Duration `yaml:"timeout"`
	MaxRetries  int           `yaml:"max_retries"`
}

// DatabaseConfig holds the PostgreSQL connection for catalog and history data.
type DatabaseConfig struct {
	Postgres DBConfig `yaml:"postgres"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// BackfillConfig holds historical backfill settings.
type BackfillConfig struct {
	Workers        int           `yaml:"workers"`         // Concurrent fetch workers
	RateLimit      time.Duration `yaml:"rate_limit"`      // Per-worker delay between consecutive items
	ReportInterval int           `yaml:"report_interval"` // Completions between progress blocks
}

// StatsConfig holds analysis settings.
type StatsConfig struct {
	WindowDays int `yaml:"window_days"` // History window loaded for per-item aggregates
}
