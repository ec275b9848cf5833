package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"tasklist/internal/notify"
	"tasklist/internal/util"
)

// Storage backends accepted by Config.Backend.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Config holds the process settings.
type Config struct {
	Addr      string        `yaml:"addr"`
	StaticDir string        `yaml:"static_dir"`
	Backend   string        `yaml:"backend"`
	NotifyTTL time.Duration `yaml:"notify_ttl"`
	LogLevel  string        `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:      ":8080",
		StaticDir: "web/dist",
		Backend:   BackendMemory,
		NotifyTTL: notify.DefaultTTL,
		LogLevel:  "info",
	}
}

// Load starts from Default, overlays the YAML file at path when path is not
// empty, then applies TASKLIST_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.Addr = util.EnvOrDefault("TASKLIST_ADDR", cfg.Addr)
	cfg.StaticDir = util.EnvOrDefault("TASKLIST_STATIC_DIR", cfg.StaticDir)
	cfg.Backend = util.EnvOrDefault("TASKLIST_BACKEND", cfg.Backend)
	cfg.NotifyTTL = util.EnvDurationOrDefault("TASKLIST_NOTIFY_TTL", cfg.NotifyTTL)
	cfg.LogLevel = util.EnvOrDefault("TASKLIST_LOG_LEVEL", cfg.LogLevel)

	return cfg, nil
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return errors.New("listen address must not be empty")
	}
	switch c.Backend {
	case BackendMemory, BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.NotifyTTL <= 0 {
		return fmt.Errorf("notify_ttl must be positive, got %s", c.NotifyTTL)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level converts LogLevel to a slog level.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return lvl, nil
}
