// Package config provides Viper-based configuration management for libraryctl
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete libraryctl configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
	Output  OutputConfig  `mapstructure:"output"`
}

// APIConfig points the client at the library backend
type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// Timeout bounds each HTTP round trip; zero means no limit.
	Timeout time.Duration `mapstructure:"timeout"`
}

// StorageConfig locates the session database
type StorageConfig struct {
	Path string `mapstructure:"path"`
	// Passphrase seals the persisted token when set.
	Passphrase string `mapstructure:"passphrase"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OutputConfig contains output formatting settings
type OutputConfig struct {
	Colors bool   `mapstructure:"colors"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".libraryctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/libraryctl")
	}

	// LIBRARYCTL_API_BASE_URL overrides api.base_url, and so on.
	v.SetEnvPrefix("LIBRARYCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:5000")
	v.SetDefault("api.timeout", 0)

	v.SetDefault("storage.path", defaultStoragePath())
	v.SetDefault("storage.passphrase", "")

	v.SetDefault("logging.level", "error")
	v.SetDefault("logging.format", "text")

	v.SetDefault("output.colors", true)
	v.SetDefault("output.format", "table")
}

// defaultStoragePath returns <user config dir>/libraryctl/session.db
func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".libraryctl", "session.db")
	}
	return filepath.Join(dir, "libraryctl", "session.db")
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api.base_url: %q (must be an absolute URL)", cfg.API.BaseURL)
	}
	if cfg.API.Timeout < 0 {
		return fmt.Errorf("invalid api.timeout: %s", cfg.API.Timeout)
	}

	if strings.TrimSpace(cfg.Storage.Path) == "" {
		return fmt.Errorf("storage.path must not be empty")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be debug, info, warn, or error)", cfg.Logging.Level)
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s (must be text or json)", cfg.Logging.Format)
	}

	validOutputs := map[string]bool{"table": true, "json": true, "yaml": true}
	if !validOutputs[cfg.Output.Format] {
		return fmt.Errorf("invalid output format: %s (must be table, json, or yaml)", cfg.Output.Format)
	}

	return nil
}
