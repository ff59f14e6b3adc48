package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if c.API.HistoryURL == "" {
		return errors.New("api.history_url is required")
	}
	if c.API.SnapshotURL == "" {
		return errors.New("api.snapshot_url is required")
	}
	if c.API.UserAgent == "" {
		return errors.New("api.user_agent is required")
	}

	if err := c.Database.Postgres.validate("database.postgres"); err != nil {
		return err
	}

	if c.Backfill.Workers < 1 {
		return errors.New("backfill.workers must be >= 1")
	}
	if c.Backfill.RateLimit < 0 {
		return errors.New("backfill.rate_limit must be >= 0")
	}
	if c.Backfill.ReportInterval < 1 {
		return errors.New("backfill.report_interval must be >= 1")
	}

	if c.Stats.WindowDays < 1 {
		return errors.New("stats.window_days must be >= 1")
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
