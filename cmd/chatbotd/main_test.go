package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestConfig(t *testing.T, seedOnStart bool) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := fmt.Sprintf(`database:
  driver: sqlite
  dsn: "file:%s"
  seed_on_start: %t
log:
  level: error
`, filepath.Join(dir, "factory.db"), seedOnStart)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	chartOut = ""
	err := rootCmd.Execute()
	return out.String(), err
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "an explicit path must exist")

	t.Setenv("CONFIG_PATH", writeTestConfig(t, false))
	c, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", c.Database.Driver)
	assert.Equal(t, "error", c.Log.Level)
}

func TestSeedThenAsk(t *testing.T) {
	path := writeTestConfig(t, false)

	out, err := execute(t, "seed", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded 8 machines, 60 production rows, 10 maintenance entries, 10 downtime incidents.")

	out, err = execute(t, "ask", "--config", path, "Machine", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "🏭 Machine Status:\n🟢 Injection Molding Machine A: Running")
	assert.Contains(t, out, "🚨 ALERT: Line 2 has 90 minutes downtime today!")
}

func TestAskWritesChart(t *testing.T) {
	path := writeTestConfig(t, true)
	png := filepath.Join(t.TempDir(), "trend.png")

	out, err := execute(t, "ask", "--config", path, "--chart-out", png, "today's production")
	require.NoError(t, err)
	assert.Contains(t, out, "📊 Today's Production:")
	assert.Contains(t, out, "Chart written to "+png)

	data, err := os.ReadFile(png)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(data[:4]))
}
