// Package config loads tada's settings from defaults, TOML files, a .env
// file, TADA_* environment variables and flags, in that order of
// increasing priority.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Default values.
const (
	DefaultBackend      = "file"
	DefaultDataFile     = "todos.json"
	DefaultRedisAddr    = "localhost:6379"
	DefaultRedisPrefix  = "tada:"
	DefaultRedisTimeout = 2 * time.Second
	DefaultLogLevel     = "warn"
	DefaultColor        = "auto"
)

// Config holds the full configuration for tada.
type Config struct {
	Backend  string      `toml:"backend"`
	DataFile string      `toml:"data_file"`
	Redis    RedisConfig `toml:"redis"`
	LogLevel string      `toml:"log_level"`
	Color    string      `toml:"color"`

	// Derived in finalize.
	Level log.Level `toml:"-"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
	// "2s", "500ms" or a bare number of seconds.
	Timeout string `toml:"timeout"`

	TimeoutDuration time.Duration `toml:"-"`
}

func setDefaults(cfg *Config) {
	cfg.Backend = DefaultBackend
	cfg.DataFile = DefaultDataFile
	cfg.Redis.Addr = DefaultRedisAddr
	cfg.Redis.Prefix = DefaultRedisPrefix
	cfg.Redis.Timeout = DefaultRedisTimeout.String()
	cfg.LogLevel = DefaultLogLevel
	cfg.Color = DefaultColor
}

// finalizeConfig validates enums and computes derived values.
func finalizeConfig(cfg *Config, workDir string) error {
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	switch cfg.Backend {
	case "file", "redis", "memory":
	default:
		return fmt.Errorf("backend must be file, redis or memory, got %q", cfg.Backend)
	}

	cfg.Color = strings.ToLower(strings.TrimSpace(cfg.Color))
	switch cfg.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("color must be auto, always or never, got %q", cfg.Color)
	}

	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.LogLevel)))
	if err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	cfg.Level = lvl

	d, err := parseDuration(cfg.Redis.Timeout)
	if err != nil {
		return fmt.Errorf("redis.timeout: %w", err)
	}
	cfg.Redis.TimeoutDuration = d

	if cfg.DataFile == "" {
		cfg.DataFile = DefaultDataFile
	}
	cfg.DataFile = expandHome(cfg.DataFile)
	if !filepath.IsAbs(cfg.DataFile) && workDir != "" {
		cfg.DataFile = filepath.Join(workDir, cfg.DataFile)
	}
	return nil
}
