package config

import (
	"path/filepath"
	"time"

	"github.com/Divert12/divert-ai-crew/internal/filex"
)

// Storage modes.
const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Config holds runtime settings for the divert terminal client.
//
// Fields:
//   - APIBaseURL: root URL of the backend HTTP API.
//   - StoragePath: SQLite file that keeps the session between runs.
//   - StorageMode: "sqlite" (durable) or "memory" (session lost on exit).
//   - RequestTimeout: per-request HTTP timeout.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	APIBaseURL     string
	StoragePath    string
	StorageMode    string
	RequestTimeout time.Duration
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000"
	c.StoragePath = filepath.Join(filex.UserConfigDir(), "divert", "session.db")
	c.StorageMode = StorageSQLite
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
