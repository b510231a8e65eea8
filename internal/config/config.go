// Package config loads tempo settings from defaults, a YAML file and the
// environment, in that order of precedence (lowest first).
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/balkashynov/tempo/internal/clock"
)

type (
	// Config holds all configuration settings
	Config struct {
		DBPath        string        `mapstructure:"db_path"         env:"DB_PATH"`
		Addr          string        `mapstructure:"addr"            env:"ADDR"`
		UTCOffset     string        `mapstructure:"utc_offset"      env:"UTC_OFFSET"`
		LogLevel      string        `mapstructure:"log_level"       env:"LOG_LEVEL"`
		LogFile       string        `mapstructure:"log_file"        env:"LOG_FILE"`
		LogMaxSizeMB  int           `mapstructure:"log_max_size_mb" env:"LOG_MAX_SIZE_MB"`
		LogMaxBackups int           `mapstructure:"log_max_backups" env:"LOG_MAX_BACKUPS"`
		OTelEndpoint  string        `mapstructure:"otel_endpoint"   env:"OTEL_ENDPOINT"`
		ReadTimeout   time.Duration `mapstructure:"read_timeout"    env:"READ_TIMEOUT"`
		WriteTimeout  time.Duration `mapstructure:"write_timeout"   env:"WRITE_TIMEOUT"`
	}

	// Option is a function that modifies Config
	Option func(*Config) error
)

const (
	appDir         = "tempo"
	configFileName = "config.yml"
	dbFileName     = "tempo.db"

	// EnvPrefix is prepended to every environment variable name.
	EnvPrefix = "TEMPO_"
)

// DefaultConfigPath returns the XDG location of the config file.
func DefaultConfigPath() (string, error) {
	return xdg.ConfigFile(filepath.Join(appDir, configFileName))
}

// DefaultDBPath returns the XDG location of the SQLite database.
func DefaultDBPath() (string, error) {
	return xdg.DataFile(filepath.Join(appDir, dbFileName))
}

// Defaults returns a Config with every field at its default. DBPath is left
// empty when the data directory cannot be resolved.
func Defaults() *Config {
	dbPath, _ := DefaultDBPath()

	return &Config{
		DBPath:        dbPath,
		Addr:          ":8080",
		UTCOffset:     "+08:00",
		LogLevel:      "info",
		LogMaxSizeMB:  10,
		LogMaxBackups: 3,
		ReadTimeout:   10 * time.Second,
		WriteTimeout:  10 * time.Second,
	}
}

// New creates a new Config with default values and applies options
func New(opts ...Option) (*Config, error) {
	cfg := Defaults()

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("config option error: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return cfg, nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("db_path must not be empty"))
	}
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if _, err := clock.ParseOffset(c.UTCOffset); err != nil {
		errs = append(errs, fmt.Errorf("utc_offset: %w", err))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if c.LogMaxSizeMB < 0 || c.LogMaxBackups < 0 {
		errs = append(errs, errors.New("log rotation limits must not be negative"))
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		errs = append(errs, errors.New("timeouts must not be negative"))
	}

	return errors.Join(errs...)
}

// Location returns the fixed zone every timestamp is generated in.
func (c *Config) Location() (*time.Location, error) {
	return clock.ParseOffset(c.UTCOffset)
}

// Level returns the configured slog level.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, err
	}
	return lvl, nil
}
