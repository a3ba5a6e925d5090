// ABOUTME: Sync link state: which server and user this device archives to.
// ABOUTME: Kept in sync.json beside config.json, with push/pull bookkeeping.
package sync

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DefaultUserID is the account used when none is linked.
const DefaultUserID = 1

// ServerEnv overrides the linked server for a single run.
const ServerEnv = "REPQUEST_SERVER"

// ErrInvalidServer is returned by Link for URLs that are not absolute http(s).
var ErrInvalidServer = errors.New("invalid server url")

// Config is the persisted link.
type Config struct {
	Server    string `json:"server"`
	UserID    int    `json:"user_id"`
	DeviceID  string `json:"device_id"`
	AutoSync  bool   `json:"auto_sync"`
	LastPush  string `json:"last_push,omitempty"`
	LastPull  string `json:"last_pull,omitempty"`
	LastError string `json:"last_error,omitempty"`
}

// ConfigDir is $XDG_CONFIG_HOME/repquest, falling back to ~/.config/repquest.
func ConfigDir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "repquest")
}

// ConfigPath returns the path to sync.json.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "sync.json")
}

// LoadConfig reads sync.json. A missing file yields an unlinked config.
func LoadConfig() (*Config, error) {
	cfg := &Config{UserID: DefaultUserID}
	data, err := os.ReadFile(ConfigPath())
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read sync config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse sync config: %w", err)
	}
	if cfg.UserID <= 0 {
		cfg.UserID = DefaultUserID
	}
	return cfg, nil
}

// SaveConfig writes sync.json with owner-only permissions.
func SaveConfig(cfg *Config) error {
	if err := os.MkdirAll(ConfigDir(), 0750); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sync config: %w", err)
	}
	return os.WriteFile(ConfigPath(), data, 0600)
}

// ClearConfig removes sync.json. A missing file is not an error.
func ClearConfig() error {
	if err := os.Remove(ConfigPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove sync config: %w", err)
	}
	return nil
}

// ApplyEnv applies ServerEnv without persisting it.
func (c *Config) ApplyEnv() {
	if server := strings.TrimSpace(os.Getenv(ServerEnv)); server != "" {
		c.Server = strings.TrimRight(server, "/")
	}
}

// Link points the config at server. userID <= 0 keeps the current user.
// A device id is assigned on first link.
func (c *Config) Link(server string, userID int) error {
	u, err := url.Parse(strings.TrimSpace(server))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidServer, server)
	}
	c.Server = strings.TrimRight(u.String(), "/")
	if userID > 0 {
		c.UserID = userID
	}
	if c.UserID <= 0 {
		c.UserID = DefaultUserID
	}
	if c.DeviceID == "" {
		c.DeviceID = GenerateDeviceID()
	}
	c.AutoSync = true
	return nil
}

// IsConfigured reports whether a server is linked.
func (c *Config) IsConfigured() bool {
	return c.Server != "" && c.UserID > 0
}

// GenerateDeviceID creates a new unique device ID.
func GenerateDeviceID() string {
	return uuid.NewString()
}
