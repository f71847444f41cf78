// ABOUTME: Tests for configuration loading
// ABOUTME: Verifies defaults, env overrides and range validation

package config

import (
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SIRIA_API_URL", "SIRIA_HTTP_TIMEOUT", "SIRIA_CONFIG_DIR", "SIRIA_AUTO_REFRESH",
		"SIRIA_PAGE_SIZE", "SIRIA_LOW_STOCK_THRESHOLD", "SIRIA_STRICT_SHAPES",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir()) // no stray .env

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("expected default API URL, got %s", cfg.APIURL)
	}
	if cfg.PageSize != 10 {
		t.Errorf("expected page size 10, got %d", cfg.PageSize)
	}
	if cfg.LowStockThreshold != 10 {
		t.Errorf("expected low stock threshold 10, got %d", cfg.LowStockThreshold)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %s", cfg.HTTPTimeout)
	}
	if cfg.AutoRefresh || cfg.StrictShapes {
		t.Error("expected auto refresh and strict shapes to be off by default")
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	dir := t.TempDir()
	t.Setenv("SIRIA_API_URL", "https://api.siria.example/")
	t.Setenv("SIRIA_HTTP_TIMEOUT", "5")
	t.Setenv("SIRIA_CONFIG_DIR", dir)
	t.Setenv("SIRIA_AUTO_REFRESH", "true")
	t.Setenv("SIRIA_PAGE_SIZE", "25")
	t.Setenv("SIRIA_STRICT_SHAPES", "1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.APIURL != "https://api.siria.example" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.APIURL)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("expected 5s, got %s", cfg.HTTPTimeout)
	}
	if cfg.ConfigDir != dir {
		t.Errorf("expected config dir %s, got %s", dir, cfg.ConfigDir)
	}
	if !cfg.AutoRefresh || !cfg.StrictShapes {
		t.Error("expected auto refresh and strict shapes enabled")
	}
	if cfg.PageSize != 25 {
		t.Errorf("expected page size 25, got %d", cfg.PageSize)
	}
}

func TestLoad_InvalidPageSize(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("SIRIA_PAGE_SIZE", "0")

	if _, err := Load(); err == nil {
		t.Error("expected error for page size 0")
	}
}

func TestLoad_URLWithoutScheme(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("SIRIA_API_URL", "api.siria.example")

	if _, err := Load(); err == nil {
		t.Error("expected error for URL without scheme")
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultConfigDir(); got != filepath.Join("/tmp/xdg", "siria-admin") {
		t.Errorf("unexpected config dir %s", got)
	}
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		value    string
		expected time.Duration
	}{
		{"", 30 * time.Second},
		{"45s", 45 * time.Second},
		{"2m", 2 * time.Minute},
		{"12", 12 * time.Second},
		{"soon", 30 * time.Second},
	}

	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			t.Setenv("SIRIA_TEST_DURATION", tc.value)
			if got := getEnvDuration("SIRIA_TEST_DURATION", 30*time.Second); got != tc.expected {
				t.Errorf("expected %s, got %s", tc.expected, got)
			}
		})
	}
}
