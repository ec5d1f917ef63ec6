// Package config loads game settings from YAML.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/talgya/citysim/internal/engine"
)

type Config struct {
	CityName      string `yaml:"city_name"`
	GridSize      int    `yaml:"grid_size"`
	Seed          int64  `yaml:"seed"` // 0 draws events from crypto/rand
	SavesDir      string `yaml:"saves_dir"`
	CompressSaves bool   `yaml:"compress_saves"`
	DBPath        string `yaml:"db_path"` // Empty disables the SQLite archive
	AutosaveEvery int    `yaml:"autosave_every"`
	LogLevel      string `yaml:"log_level"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		CityName: "New City",
		GridSize: 10,
		SavesDir: "saves",
		LogLevel: "info",
	}
}

// Load overlays the YAML file at path on the defaults. An empty path yields
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Normalize() {
	c.CityName = strings.TrimSpace(c.CityName)
	if c.CityName == "" {
		c.CityName = Default().CityName
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if strings.TrimSpace(c.SavesDir) == "" {
		c.SavesDir = Default().SavesDir
	}
}

func (c Config) Validate() error {
	if c.GridSize < 1 || c.GridSize > engine.MaxGridSize {
		return fmt.Errorf("grid_size must be between 1 and %d, got %d", engine.MaxGridSize, c.GridSize)
	}
	if c.AutosaveEvery < 0 {
		return fmt.Errorf("autosave_every must be >= 0, got %d", c.AutosaveEvery)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps log_level onto a slog level.
func (c Config) SlogLevel() (slog.Level, error) {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log_level %q", c.LogLevel)
}
