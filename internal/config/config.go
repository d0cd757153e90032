// Package config reads runtime settings from the environment, with an
// optional .env file in the working directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/HendryAvila/devplan/internal/logging"
)

// Store backends.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreFile     = "file"
	StoreMemory   = "memory"
)

// DefaultCacheSize is the number of documents kept in the LRU cache.
const DefaultCacheSize = 256

// validStores is the set of allowed backends.
var validStores = map[string]bool{
	StoreSQLite:   true,
	StorePostgres: true,
	StoreFile:     true,
	StoreMemory:   true,
}

// Config holds every runtime setting.
type Config struct {
	DataDir     string
	Store       string
	PostgresDSN string
	ContentFile string
	CacheSize   int
	LogLevel    string
	LogFormat   string
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir:   filepath.Join(home, ".devplan"),
		Store:     StoreSQLite,
		CacheSize: DefaultCacheSize,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load reads .env (if present) and the DEVPLAN_* environment variables
// over the defaults. The result is validated.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a configuration from an environment lookup.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()
	env := func(key string) string { return strings.TrimSpace(getenv(key)) }

	cfg.DataDir = firstNonEmpty(expandHome(env("DEVPLAN_DATA_DIR")), cfg.DataDir)
	cfg.Store = strings.ToLower(firstNonEmpty(env("DEVPLAN_STORE"), cfg.Store))
	cfg.PostgresDSN = firstNonEmpty(env("DEVPLAN_PG_DSN"), env("DATABASE_URL"))
	cfg.ContentFile = expandHome(env("DEVPLAN_CONTENT_FILE"))
	cfg.LogLevel = strings.ToLower(firstNonEmpty(env("DEVPLAN_LOG_LEVEL"), cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(firstNonEmpty(env("DEVPLAN_LOG_FORMAT"), cfg.LogFormat))

	if raw := env("DEVPLAN_CACHE_SIZE"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return cfg, fmt.Errorf("config: DEVPLAN_CACHE_SIZE: %q is not an integer", raw)
		}
		cfg.CacheSize = n
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if !validStores[c.Store] {
		return fmt.Errorf("config: invalid store %q: must be one of: sqlite, postgres, file, memory", c.Store)
	}
	if c.Store == StorePostgres && c.PostgresDSN == "" {
		return fmt.Errorf("config: store %q requires DEVPLAN_PG_DSN", c.Store)
	}
	if (c.Store == StoreSQLite || c.Store == StoreFile) && c.DataDir == "" {
		return fmt.Errorf("config: store %q requires a data directory", c.Store)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("config: cache size must be >= 0, got %d", c.CacheSize)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := logging.ValidateFormat(c.LogFormat); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Logging returns the logger settings.
func (c Config) Logging() logging.Config {
	return logging.Config{Level: c.LogLevel, Format: c.LogFormat}
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
