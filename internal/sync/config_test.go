// ABOUTME: Tests for sync configuration management.
// ABOUTME: Verifies LoadConfig, SaveConfig, IsConfigured, and device ID generation.
package sync

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigNoFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Server)
	assert.Equal(t, DefaultUserID, cfg.UserID)
	assert.False(t, cfg.IsConfigured())
}

func TestSaveAndLoadConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := &Config{
		Server:   "https://test.example.com",
		UserID:   7,
		DeviceID: "device-123",
		AutoSync: true,
		LastPush: "2024-05-10T09:00:00Z",
	}
	require.NoError(t, SaveConfig(cfg))
	assert.FileExists(t, ConfigPath())

	info, err := os.Stat(ConfigPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	assert.True(t, loaded.IsConfigured())
}

func TestLoadConfigInvalidJSON(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	require.NoError(t, os.MkdirAll(ConfigDir(), 0750))
	require.NoError(t, os.WriteFile(ConfigPath(), []byte("{nope"), 0600))

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigFixesUserID(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	require.NoError(t, SaveConfig(&Config{Server: "http://x", UserID: 0}))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultUserID, cfg.UserID)
}

func TestClearConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	require.NoError(t, ClearConfig())
	require.NoError(t, SaveConfig(&Config{Server: "http://x", UserID: 1}))
	require.NoError(t, ClearConfig())
	assert.NoFileExists(t, ConfigPath())
}

func TestGenerateDeviceID(t *testing.T) {
	a := GenerateDeviceID()
	b := GenerateDeviceID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestLink(t *testing.T) {
	cfg := &Config{UserID: DefaultUserID}
	require.NoError(t, cfg.Link("https://lift.example.com/", 7))
	assert.Equal(t, "https://lift.example.com", cfg.Server)
	assert.Equal(t, 7, cfg.UserID)
	assert.Len(t, cfg.DeviceID, 36)
	assert.True(t, cfg.AutoSync)
	assert.True(t, cfg.IsConfigured())

	device := cfg.DeviceID
	require.NoError(t, cfg.Link("http://localhost:5000", 0))
	assert.Equal(t, 7, cfg.UserID, "userID 0 keeps the current user")
	assert.Equal(t, device, cfg.DeviceID, "relinking keeps the device id")
}

func TestLinkRejectsBadURLs(t *testing.T) {
	for _, server := range []string{"", "lift.example.com", "ftp://lift.example.com", "http://", "::nope"} {
		cfg := &Config{}
		err := cfg.Link(server, 1)
		assert.ErrorIs(t, err, ErrInvalidServer, "server %q", server)
		assert.False(t, cfg.IsConfigured())
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := &Config{Server: "http://saved", UserID: 1}

	t.Setenv(ServerEnv, "")
	cfg.ApplyEnv()
	assert.Equal(t, "http://saved", cfg.Server)

	t.Setenv(ServerEnv, "http://override:8080/")
	cfg.ApplyEnv()
	assert.Equal(t, "http://override:8080", cfg.Server)
}
