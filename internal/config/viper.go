package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
)

// WithFile returns an Option that loads configuration from a YAML file. A
// missing file leaves the current values untouched.
func WithFile(configPath string) Option {
	return func(c *Config) error {
		if configPath == "" {
			return nil
		}

		v := viper.New()
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		err := v.ReadInConfig()
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return fmt.Errorf("reading config file failed: %w", err)
		}

		if err := v.Unmarshal(c); err != nil {
			return fmt.Errorf("decoding config file failed: %w", err)
		}

		return nil
	}
}

// WithEnv returns an Option that overrides settings from TEMPO_* environment
// variables. Unset variables are ignored.
func WithEnv() Option {
	return func(c *Config) error {
		if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
			return fmt.Errorf("parse env: %w", err)
		}
		return nil
	}
}

// With returns an Option that applies fn directly. Commands use it for flag
// overrides.
func With(fn func(*Config)) Option {
	return func(c *Config) error {
		fn(c)
		return nil
	}
}
