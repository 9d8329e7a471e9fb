package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 2000, cfg.Tracker.FlushWindowMS)
	assert.Equal(t, 1000, cfg.Tracker.MaxSessions)
	assert.Equal(t, "127.0.0.1", cfg.Daemon.Host)
	assert.Equal(t, 8732, cfg.Daemon.Port)
	assert.Equal(t, "tabtime.db", cfg.Storage.SQLiteFile)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_MergesWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
tracker:
  flush_window_ms: 500
daemon:
  port: 9999
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Tracker.FlushWindowMS)
	assert.Equal(t, 9999, cfg.Daemon.Port)
	// Untouched values keep defaults.
	assert.Equal(t, 1000, cfg.Tracker.MaxSessions)
	assert.Equal(t, "127.0.0.1", cfg.Daemon.Host)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tracker: [not a map"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadOrCreateAt_WritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")

	cfg, err := LoadOrCreateAt(path)
	require.NoError(t, err)
	assert.Equal(t, 2000, cfg.Tracker.FlushWindowMS)

	// File now exists and loads back identically.
	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded)
}

func TestFlushWindow(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 2*time.Second, cfg.FlushWindow())

	cfg.Tracker.FlushWindowMS = 250
	assert.Equal(t, 250*time.Millisecond, cfg.FlushWindow())
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"garbage", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tc := range tests {
		cfg := DefaultConfig()
		cfg.Logging.Level = tc.level
		assert.Equal(t, tc.expected, cfg.LogLevel(), "level %q", tc.level)
	}
}

func TestDBPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Path = "/var/lib/tabtime"

	path, err := cfg.DBPath()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/tabtime/tabtime.db", path)
}
