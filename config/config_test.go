package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "database:\n  dsn: \"host=db\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 30, cfg.Chatbot.AlertThresholdMinutes)
	assert.Equal(t, 7, cfg.Chatbot.ChartDays)
	assert.Equal(t, 5, cfg.Chatbot.RecentDowntimeRowsLimit)
	assert.Equal(t, 5*time.Minute, cfg.Chatbot.ChartCacheTTL)
	assert.Equal(t, "@every 5m", cfg.Watcher.Schedule)
	assert.Equal(t, 1, cfg.WorkerPool.Size)
	assert.NotNil(t, cfg.Chatbot.Location)
	assert.False(t, cfg.Push.Enabled())
}

func TestLoad_ReadsValues(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
database:
  driver: sqlite
  dsn: "file::memory:"
chatbot:
  timezone: "UTC"
  alert_threshold_minutes: 45
push:
  vapid_public_key: "pub"
  vapid_private_key: "priv"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 45, cfg.Chatbot.AlertThresholdMinutes)
	assert.Equal(t, time.UTC, cfg.Chatbot.Location)
	assert.True(t, cfg.Push.Enabled())
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "unknown driver", body: "database:\n  driver: oracle\n"},
		{name: "bad timezone", body: "chatbot:\n  timezone: \"Mars/Olympus\"\n"},
		{name: "malformed yaml", body: "server: [\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 30, cfg.Chatbot.AlertThresholdMinutes)
}
