// Package config loads ~/.config/acc/config.toml.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/record"
)

// EnvPath overrides the config file location.
const EnvPath = "ACC_CONFIG"

type Config struct {
	ImportDirs            []string `toml:"import_dirs"`
	HomePlatform          string   `toml:"home_platform"`
	UserID                string   `toml:"user_id"`
	Timezone              string   `toml:"timezone"`
	ServeAddr             string   `toml:"serve_addr"`
	ExportDir             string   `toml:"export_dir"`
	LogLevel              string   `toml:"log_level"`
	IncludeCurrentSession bool     `toml:"include_current_session"`

	// Path is the file the config was read from, empty when none existed.
	Path string `toml:"-"`
}

// Default returns the built-in configuration.
func Default(home string) *Config {
	return &Config{
		ImportDirs:   []string{filepath.Join(home, ".config", "acc", "imports")},
		HomePlatform: string(record.Claude),
		UserID:       "local",
		Timezone:     "Local",
		ServeAddr:    "127.0.0.1:8787",
		ExportDir:    ".",
		LogLevel:     "info",
	}
}

// DefaultPath returns the config file path, honouring ACC_CONFIG.
func DefaultPath(home string) string {
	if p := os.Getenv(EnvPath); p != "" {
		return expandHome(p, home)
	}
	return filepath.Join(home, ".config", "acc", "config.toml")
}

func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(DefaultPath(home), home)
}

// LoadFrom applies the file at path (if it exists) over the defaults.
func LoadFrom(path, home string) (*Config, error) {
	cfg := Default(home)

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg.Path = path
	}

	// expand ~ in paths
	for i, d := range cfg.ImportDirs {
		cfg.ImportDirs[i] = expandHome(d, home)
	}
	cfg.ExportDir = expandHome(cfg.ExportDir, home)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the home platform, timezone and log level.
func (c *Config) Validate() error {
	if _, err := record.ParsePlatform(c.HomePlatform); err != nil {
		return fmt.Errorf("home_platform: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// Home returns the home platform. Call Validate first.
func (c *Config) Home() record.Platform {
	p, _ := record.ParsePlatform(c.HomePlatform)
	return p
}

// Location resolves the timezone used for calendar days.
func (c *Config) Location() (*time.Location, error) {
	switch c.Timezone {
	case "", "Local", "local":
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Level returns the configured slog level.
func (c *Config) Level() slog.Level {
	l, _ := parseLevel(c.LogLevel)
	return l
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown level %q", s)
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
