package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "default", cfg.CurrentProfile)
	assert.NotNil(t, cfg.Profiles)
	assert.Empty(t, cfg.Profiles)
}

func TestLoad_NoConfigFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, "default", cfg.CurrentProfile)
	assert.Empty(t, cfg.Profiles)
}

func TestLoad_WithConfigFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	configContent := `current_profile: production
profiles:
  production:
    server_url: https://leaderboard.runstr.example.com
    token: test-token-123
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0600))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.CurrentProfile)
	require.Contains(t, cfg.Profiles, "production")
	assert.Equal(t, "https://leaderboard.runstr.example.com", cfg.Profiles["production"].ServerURL)
	assert.Equal(t, "test-token-123", cfg.Profiles["production"].Token)
}

func TestSaveProfile_RoundTrip(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := Load(configPath)
	require.NoError(t, err)

	require.NoError(t, cfg.SaveProfile("staging", "http://localhost:8084", "tok"))

	reloaded, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "staging", reloaded.CurrentProfile)
	p, err := reloaded.GetProfile("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8084", p.ServerURL)
	assert.Equal(t, "tok", p.Token)
}

func TestGetProfile_NotFound(t *testing.T) {
	cfg := Default()
	_, err := cfg.GetProfile("missing")
	assert.Error(t, err)
}
