// ABOUTME: RepQuest configuration management with backend selection.
// ABOUTME: Handles settings, environment overrides, and the storage backend factory.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/repquest/internal/charm"
	"github.com/harperreed/repquest/internal/storage"
	"github.com/harperreed/repquest/internal/tracker"
)

// Backend names.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendCharm  = "charm"
)

const (
	defaultTimeoutSeconds = 10
	defaultMaxAttempts    = 8
	defaultLogLevel       = "warn"
)

// ErrUnknownBackend is returned for a backend name that is not supported.
var ErrUnknownBackend = errors.New("unknown backend")

// Config stores repquest configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default), "badger", or "charm".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage.
	// SQLite puts repquest.db here; Badger uses a badger/ subdirectory.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/repquest.
	DataDir string `json:"data_dir,omitempty"`

	// TimeoutSeconds bounds every server request.
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`

	// UndoPolicy is "keep" (default) or "retract".
	UndoPolicy string `json:"undo_policy,omitempty"`

	// MaxSyncAttempts parks queued archives after this many failures.
	MaxSyncAttempts int `json:"max_sync_attempts,omitempty"`

	LogLevel string `json:"log_level,omitempty"`

	// CharmHost overrides the Charm server for the charm backend.
	CharmHost string `json:"charm_host,omitempty"`

	// AutoSync pushes Charm KV writes to the cloud immediately.
	AutoSync *bool `json:"auto_sync,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetTimeout returns the request timeout.
func (c *Config) GetTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// GetUndoPolicy returns the parsed undo policy, defaulting to keep.
func (c *Config) GetUndoPolicy() tracker.UndoPolicy {
	p, err := tracker.ParseUndoPolicy(c.UndoPolicy)
	if err != nil {
		return tracker.UndoKeep
	}
	return p
}

// GetMaxSyncAttempts returns the retry cap for queued archives.
func (c *Config) GetMaxSyncAttempts() int {
	if c.MaxSyncAttempts <= 0 {
		return defaultMaxAttempts
	}
	return c.MaxSyncAttempts
}

// GetLogLevel returns the parsed log level, defaulting to warn.
func (c *Config) GetLogLevel() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if c.LogLevel == "" || err != nil {
		level, _ = log.ParseLevel(defaultLogLevel)
	}
	return level
}

// GetAutoSync reports whether Charm writes sync immediately. Defaults to true.
func (c *Config) GetAutoSync() bool {
	return c.AutoSync == nil || *c.AutoSync
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.GetBackend() {
	case BackendSQLite, BackendBadger, BackendCharm:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}
	if _, err := tracker.ParseUndoPolicy(c.UndoPolicy); err != nil {
		return err
	}
	if c.LogLevel != "" {
		if _, err := log.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
		}
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative")
	}
	return nil
}

// ApplyEnv applies REPQUEST_* environment overrides.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("REPQUEST_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv("REPQUEST_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("REPQUEST_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("REPQUEST_UNDO_POLICY"); v != "" {
		c.UndoPolicy = v
	}
	if v := os.Getenv("REPQUEST_MAX_SYNC_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxSyncAttempts = n
		}
	}
	if v := os.Getenv("REPQUEST_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("REPQUEST_CHARM_HOST"); v != "" {
		c.CharmHost = v
	}
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage(logger *log.Logger) (storage.Repository, error) {
	dataDir := c.GetDataDir()

	switch c.GetBackend() {
	case BackendSQLite:
		return storage.Open(filepath.Join(dataDir, storage.DBFile))
	case BackendBadger:
		return storage.OpenBadger(filepath.Join(dataDir, "badger"), logger)
	case BackendCharm:
		return charm.Open(charm.Options{Host: c.CharmHost, AutoSync: c.GetAutoSync(), Logger: logger})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "repquest", "config.json")
}

// Load reads config from disk, then applies environment overrides.
func Load() (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(GetConfigPath())
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, err
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
