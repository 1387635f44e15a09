// Package config loads keepawake settings from defaults, an optional
// config file, KEEPAWAKE_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "KEEPAWAKE"

// Config holds the runtime settings. The target bundle id is fixed and
// deliberately absent.
type Config struct {
	Enabled       bool          `mapstructure:"enabled"`
	FloatWindows  bool          `mapstructure:"float_windows"`
	FloatInterval time.Duration `mapstructure:"float_interval"`
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	LogPath       string        `mapstructure:"log_path"`
	Debug         bool          `mapstructure:"debug"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Enabled:       true,
		FloatWindows:  false,
		FloatInterval: 2 * time.Second,
		PollInterval:  time.Second,
		LogPath:       "",
		Debug:         false,
	}
}

// SetDefaults registers the built-in settings on v.
func SetDefaults(v *viper.Viper) {
	defaults := Default()
	v.SetDefault("enabled", defaults.Enabled)
	v.SetDefault("float_windows", defaults.FloatWindows)
	v.SetDefault("float_interval", defaults.FloatInterval)
	v.SetDefault("poll_interval", defaults.PollInterval)
	v.SetDefault("log_path", defaults.LogPath)
	v.SetDefault("debug", defaults.Debug)
}

// New returns a viper instance with defaults, env overrides and
// configDir/config.yaml as the config file location.
func New(configDir string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configDir != "" {
		v.AddConfigPath(configDir)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return v
}

// ReadFile reads the config file if one exists. A missing file is not
// an error.
func ReadFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// Load reads the configuration from v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings are usable.
func (c *Config) Validate() error {
	var err error
	if c.FloatInterval <= 0 {
		err = multierr.Append(err, fmt.Errorf("float_interval must be positive, got %s", c.FloatInterval))
	}
	if c.PollInterval <= 0 {
		err = multierr.Append(err, fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval))
	}
	if c.LogPath != "" && !filepath.IsAbs(c.LogPath) {
		err = multierr.Append(err, fmt.Errorf("log_path must be absolute, got %q", c.LogPath))
	}
	return err
}
