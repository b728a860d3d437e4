package runtimeconfig_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-cms-admin/internal/runtimeconfig"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
	if cfg.Listing.ItemsPerPage != 8 {
		t.Fatalf("expected 8 items per page, got %d", cfg.Listing.ItemsPerPage)
	}
	if cfg.Notifications.TTL != 4*time.Second {
		t.Fatalf("expected 4s notification ttl, got %s", cfg.Notifications.TTL)
	}
	if cfg.Features.DemoMode {
		t.Fatal("demo mode must be off by default")
	}
}

func TestConfigValidate_RejectsRelativeBaseURL(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.API.BaseURL = "/api"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrAPIBaseURLInvalid) {
		t.Fatalf("expected ErrAPIBaseURLInvalid, got %v", err)
	}
}

func TestConfigValidate_RejectsZeroItemsPerPage(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Listing.ItemsPerPage = 0

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrItemsPerPageInvalid) {
		t.Fatalf("expected ErrItemsPerPageInvalid, got %v", err)
	}
}

func TestConfigValidate_RejectsUnknownPeriod(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Analytics.DefaultPeriod = "decade"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrAnalyticsPeriodInvalid) {
		t.Fatalf("expected ErrAnalyticsPeriodInvalid, got %v", err)
	}
}

func TestConfigValidate_RequiresDSNForSQLDrivers(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Driver = "sqlite"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrStorageDSNRequired) {
		t.Fatalf("expected ErrStorageDSNRequired, got %v", err)
	}

	cfg.Storage.Driver = "redis"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrStorageDriverUnknown) {
		t.Fatalf("expected ErrStorageDriverUnknown, got %v", err)
	}
}

func TestConfigValidate_RejectsUnknownLoggingProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "syslog"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestConfigValidate_ZerologRejectsPrettyFormat(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "zerolog"
	cfg.Logging.Format = "pretty"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}
}

func TestLoadOverlaysYAMLAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "admin.yaml")
	body := []byte(`api:
  base_url: https://api.example.com
  timeout: 10s
listing:
  items_per_page: 12
features:
  demo_mode: true
storage:
  driver: sqlite
  dsn: file:admin.db
`)
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("ADMIN_LISTING_ITEMS_PER_PAGE", "6")

	cfg, err := runtimeconfig.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "https://api.example.com" || cfg.API.Timeout != 10*time.Second {
		t.Fatalf("unexpected api section %+v", cfg.API)
	}
	if cfg.Listing.ItemsPerPage != 6 {
		t.Fatalf("expected env override to 6, got %d", cfg.Listing.ItemsPerPage)
	}
	if !cfg.Features.DemoMode {
		t.Fatal("expected demo mode from yaml")
	}
	if cfg.Notifications.TTL != 4*time.Second {
		t.Fatalf("expected default ttl to survive, got %s", cfg.Notifications.TTL)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := runtimeconfig.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
