package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", true)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.App.StartCash != 1_000_000 || cfg.App.Currency != "SEK" || cfg.App.User != "demo" {
		t.Errorf("app = %+v, want 1000000 SEK demo", cfg.App)
	}
	if cfg.DB.DSN != "data/data.db" || cfg.DB.ConnMaxLifetime != 30*time.Minute {
		t.Errorf("db = %+v", cfg.DB)
	}
	if cfg.Benchmark.Ticker != "^OMXSPI" {
		t.Errorf("benchmark = %q, want ^OMXSPI", cfg.Benchmark.Ticker)
	}
	if cfg.Provider.CacheTTL != time.Hour || cfg.Fetch.LookbackDays != 365 {
		t.Errorf("provider = %+v fetch = %+v", cfg.Provider, cfg.Fetch)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.yaml")
	content := "app:\n  start_cash: 500000\n  currency: EUR\ndb:\n  dsn: file.db\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FOLIO_DB_DSN", "postgres://folio@localhost/folio")

	cfg, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.App.StartCash != 500000 || cfg.App.Currency != "EUR" {
		t.Errorf("app = %+v, want 500000 EUR", cfg.App)
	}
	if cfg.DB.DSN != "postgres://folio@localhost/folio" {
		t.Errorf("db.dsn = %q, want the environment value", cfg.DB.DSN)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), false); err == nil {
		t.Errorf("Load(missing) expected an error")
	}
}
