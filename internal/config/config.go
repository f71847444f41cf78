// ABOUTME: Configuration loader for the siria-admin client
// ABOUTME: Loads settings from environment variables (and an optional .env) with defaults

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL            = "http://localhost:8080"
	DefaultPageSize          = 10
	DefaultLowStockThreshold = 10
	DefaultHTTPTimeout       = 30 * time.Second
)

type Config struct {
	// API
	APIURL      string
	HTTPTimeout time.Duration

	// Session
	ConfigDir   string // holds session.json and debug.log
	AutoRefresh bool   // refresh the access token once on 401 and retry

	// Catalog
	PageSize          int
	LowStockThreshold int
	StrictShapes      bool // unknown list response shapes fail instead of yielding an empty list
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	cfg := &Config{
		APIURL:            strings.TrimRight(getEnv("SIRIA_API_URL", DefaultAPIURL), "/"),
		HTTPTimeout:       getEnvDuration("SIRIA_HTTP_TIMEOUT", DefaultHTTPTimeout),
		ConfigDir:         getEnv("SIRIA_CONFIG_DIR", DefaultConfigDir()),
		AutoRefresh:       getEnvBool("SIRIA_AUTO_REFRESH", false),
		PageSize:          getEnvInt("SIRIA_PAGE_SIZE", DefaultPageSize),
		LowStockThreshold: getEnvInt("SIRIA_LOW_STOCK_THRESHOLD", DefaultLowStockThreshold),
		StrictShapes:      getEnvBool("SIRIA_STRICT_SHAPES", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("SIRIA_API_URL must not be empty")
	}
	if !strings.Contains(c.APIURL, "://") {
		return fmt.Errorf("SIRIA_API_URL must include a scheme, got %q", c.APIURL)
	}
	if c.PageSize < 1 || c.PageSize > 500 {
		return fmt.Errorf("SIRIA_PAGE_SIZE must be between 1 and 500, got %d", c.PageSize)
	}
	if c.LowStockThreshold < 0 {
		return fmt.Errorf("SIRIA_LOW_STOCK_THRESHOLD must not be negative, got %d", c.LowStockThreshold)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("SIRIA_HTTP_TIMEOUT must not be negative, got %s", c.HTTPTimeout)
	}
	return nil
}

// DefaultConfigDir returns the default config directory following the XDG base directory layout
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "siria-admin")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "siria-admin")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("45s") or plain seconds ("45").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
