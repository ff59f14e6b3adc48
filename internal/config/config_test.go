package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	yaml := `
instance:
  id: gemarket-test
api:
  history_url: https://api.example.org/exchange/history/rs/all
  user_agent: gemarket-test/0.1
database:
  postgres:
    host: localhost
    port: 5432
    name: test_db
    user: testuser
    password: testpass
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Instance.ID != "gemarket-test" {
		t.Errorf("Instance.ID = %q, want %q", cfg.Instance.ID, "gemarket-test")
	}
	if cfg.API.HistoryURL != "https://api.example.org/exchange/history/rs/all" {
		t.Errorf("API.HistoryURL = %q, want %q", cfg.API.HistoryURL, "https://api.example.org/exchange/history/rs/all")
	}
	if cfg.Database.Postgres.Host != "localhost" {
		t.Errorf("Database.Postgres.Host = %q, want %q", cfg.Database.Postgres.Host, "localhost")
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "secret123")

	yaml := `
instance:
  id: gemarket-test
database:
  postgres:
    host: localhost
    name: test_db
    user: testuser
    password: ${TEST_DB_PASSWORD}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Postgres.Password != "secret123" {
		t.Errorf("Database.Postgres.Password = %q, want %q", cfg.Database.Postgres.Password, "secret123")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
instance:
  id: gemarket-test
database:
  postgres:
    host: localhost
    name: test_db
    user: testuser
    password: testpass
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	// Check defaults were applied
	if cfg.API.HistoryURL != DefaultHistoryURL {
		t.Errorf("API.HistoryURL = %q, want default %q", cfg.API.HistoryURL, DefaultHistoryURL)
	}
	if cfg.API.Timeout != DefaultAPITimeout {
		t.Errorf("API.Timeout = %v, want default %v", cfg.API.Timeout, DefaultAPITimeout)
	}
	if cfg.Database.Postgres.Port != DefaultDBPort {
		t.Errorf("Database.Postgres.Port = %d, want default %d", cfg.Database.Postgres.Port, DefaultDBPort)
	}
	if cfg.Backfill.Workers != DefaultWorkers {
		t.Errorf("Backfill.Workers = %d, want default %d", cfg.Backfill.Workers, DefaultWorkers)
	}
	if cfg.Backfill.RateLimit != DefaultRateLimit {
		t.Errorf("Backfill.RateLimit = %v, want default %v", cfg.Backfill.RateLimit, DefaultRateLimit)
	}
	if cfg.Backfill.ReportInterval != DefaultReportInterval {
		t.Errorf("Backfill.ReportInterval = %d, want default %d", cfg.Backfill.ReportInterval, DefaultReportInterval)
	}
	if cfg.Stats.WindowDays != DefaultWindowDays {
		t.Errorf("Stats.WindowDays = %d, want default %d", cfg.Stats.WindowDays, DefaultWindowDays)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		Instance: InstanceConfig{ID: "test"},
		API: APIConfig{
			HistoryURL:  "https://api.example.org/history",
			SnapshotURL: "https://api.example.org/dump.json",
			UserAgent:   "test/1.0",
			Timeout:     30 * time.Second,
		},
		Database: DatabaseConfig{
			Postgres: DBConfig{Host: "localhost", Name: "db", User: "user", Password: "pass", MaxConns: 10, MinConns: 2},
		},
		Backfill: BackfillConfig{Workers: 3, RateLimit: time.Second, ReportInterval: 100},
		Stats:    StatsConfig{WindowDays: 90},
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "missing instance id",
			mutate:  func(c *Config) { c.Instance.ID = "" },
			wantErr: "instance.id is required",
		},
		{
			name:    "missing user agent",
			mutate:  func(c *Config) { c.API.UserAgent = "" },
			wantErr: "api.user_agent is required",
		},
		{
			name:    "missing postgres host",
			mutate:  func(c *Config) { c.Database.Postgres.Host = "" },
			wantErr: "database.postgres.host is required",
		},
		{
			name:    "missing postgres password",
			mutate:  func(c *Config) { c.Database.Postgres.Password = "" },
			wantErr: "database.postgres.password is required",
		},
		{
			name: "min_conns exceeds max_conns",
			mutate: func(c *Config) {
				c.Database.Postgres.MaxConns = 5
				c.Database.Postgres.MinConns = 10
			},
			wantErr: "database.postgres.min_conns (10) cannot exceed max_conns (5)",
		},
		{
			name:    "zero workers",
			mutate:  func(c *Config) { c.Backfill.Workers = 0 },
			wantErr: "backfill.workers must be >= 1",
		},
		{
			name:    "negative rate limit",
			mutate:  func(c *Config) { c.Backfill.RateLimit = -time.Second },
			wantErr: "backfill.rate_limit must be >= 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("Validate() expected error %q, got nil", tt.wantErr)
				} else if err.Error() != tt.wantErr {
					t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}
