package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "citysim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadEmptyPathIsDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 10, cfg.GridSize)
	assert.Zero(t, cfg.Seed)
	assert.Empty(t, cfg.DBPath)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
city_name: "  Springfield "
grid_size: 16
seed: 42
compress_saves: true
db_path: data/city.db
autosave_every: 5
log_level: DEBUG
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Springfield", cfg.CityName)
	assert.Equal(t, 16, cfg.GridSize)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, "saves", cfg.SavesDir)
	assert.True(t, cfg.CompressSaves)
	assert.Equal(t, "data/city.db", cfg.DBPath)
	assert.Equal(t, 5, cfg.AutosaveEvery)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"zero grid":         "grid_size: 0\n",
		"huge grid":         "grid_size: 1000000\n",
		"negative autosave": "autosave_every: -1\n",
		"bad level":         "log_level: chatty\n",
		"bad yaml":          "grid_size: [1, 2\n",
		"wrong type":        "grid_size: big\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSlogLevels(t *testing.T) {
	for level, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := Config{LogLevel: level}.SlogLevel()
		require.NoError(t, err)
		assert.Equal(t, want, got, level)
	}
}
