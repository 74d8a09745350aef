package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("SQLITE_PATH", "")
	t.Setenv("PORT", "")
	t.Setenv("DEFAULT_CURRENCY", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.StoreDriver != StoreDriverSQLite {
		t.Fatalf("StoreDriver mismatch: got %q want %q", cfg.StoreDriver, StoreDriverSQLite)
	}
	if cfg.SQLitePath != "impactseed.db" {
		t.Fatalf("SQLitePath mismatch: got %q", cfg.SQLitePath)
	}
	if cfg.DefaultCurrency != "USD" {
		t.Fatalf("DefaultCurrency mismatch: got %q", cfg.DefaultCurrency)
	}
	if cfg.HTTPReadTimeout != 15*time.Second {
		t.Fatalf("HTTPReadTimeout mismatch: got %v", cfg.HTTPReadTimeout)
	}
	if cfg.LoginURL != "/login.html" {
		t.Fatalf("LoginURL mismatch: got %q", cfg.LoginURL)
	}
}

func TestLoadConfigPostgresRequiresDatabaseURL(t *testing.T) {
	t.Setenv("STORE_DRIVER", StoreDriverPostgres)
	t.Setenv("DATABASE_URL", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for postgres driver without DATABASE_URL")
	}

	t.Setenv("DATABASE_URL", "postgres://example")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.StoreDriver != StoreDriverPostgres {
		t.Fatalf("StoreDriver mismatch: got %q", cfg.StoreDriver)
	}
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "etcd")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for unknown store driver")
	}
}

func TestLoadConfigSplitsAllowedOrigins(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "http://a.example, http://b.example ,")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	want := []string{"http://a.example", "http://b.example"}
	if len(cfg.AllowedOrigins) != len(want) {
		t.Fatalf("AllowedOrigins mismatch: %#v", cfg.AllowedOrigins)
	}
	for i := range want {
		if cfg.AllowedOrigins[i] != want[i] {
			t.Fatalf("AllowedOrigins[%d] mismatch: got %q want %q", i, cfg.AllowedOrigins[i], want[i])
		}
	}
}
