// Package config loads playdump's configuration using Viper, following
// internal/config/config.go's file+environment+defaults layering in
// the example pack.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/playvdk/vdk/av"
)

// Default configuration values, matching spec.md's literal tolerance
// constants (av.DefaultConfig's ±5 ticks, 1000 ticks ahead).
const (
	defaultSyncToleranceTicks      = 5
	defaultFarFutureThresholdTicks = 1000
)

// Config holds everything internal/config loads: the sync tunables
// av.Config carries, plus the logging settings internal/obslog turns
// into a Logger.
type Config struct {
	Sync    SyncConfig    `mapstructure:"sync"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SyncConfig mirrors av.Config's fields one-to-one, plus string forms
// of the FourCC/MIME filters that are easier to express in YAML/env
// than raw 4-byte codes.
type SyncConfig struct {
	ToleranceTicks          int64    `mapstructure:"tolerance_ticks"`
	FarFutureThresholdTicks int64    `mapstructure:"far_future_threshold_ticks"`
	DisabledCodecs          []string `mapstructure:"disabled_codecs"`
	DisabledContainers      []string `mapstructure:"disabled_containers"`
}

// LoggingConfig holds internal/obslog's two knobs.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// Load reads configuration from configPath if non-empty, else searches
// the working directory, /etc/playdump, and $HOME/.playdump for
// playdump.yaml, then layers PLAYDUMP_-prefixed environment variables
// and defaults on top, mirroring the teacher's config.Load.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("playdump")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/playdump")
		v.AddConfigPath("$HOME/.playdump")
	}

	v.SetEnvPrefix("PLAYDUMP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Config file not found is OK: defaults and env vars still apply.
	}

	return FromViper(v)
}

// FromViper unmarshals and validates a Config from an already-
// populated Viper instance, letting callers (tests, BindPFlags users)
// skip Load's file-discovery side effects.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// SetDefaults configures default values for all configuration options.
// Call before reading a config file so the file only needs to override
// what differs from the defaults.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("sync.tolerance_ticks", defaultSyncToleranceTicks)
	v.SetDefault("sync.far_future_threshold_ticks", defaultFarFutureThresholdTicks)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Sync.ToleranceTicks < 0 {
		return fmt.Errorf("sync.tolerance_ticks must be >= 0")
	}
	if c.Sync.FarFutureThresholdTicks <= 0 {
		return fmt.Errorf("sync.far_future_threshold_ticks must be > 0")
	}
	for _, fourCC := range c.Sync.DisabledCodecs {
		if len(fourCC) != 4 {
			return fmt.Errorf("sync.disabled_codecs entries must be exactly 4 bytes, got %q", fourCC)
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}
	return nil
}

// AVConfig converts the loaded Config into the av.Config the
// scheduler's Config-filtered registry consumes.
func (c *Config) AVConfig() av.Config {
	codecs := make([]av.FourCC, 0, len(c.Sync.DisabledCodecs))
	for _, fourCC := range c.Sync.DisabledCodecs {
		codecs = append(codecs, av.NewFourCC(fourCC))
	}
	return av.Config{
		SyncToleranceTicks:      c.Sync.ToleranceTicks,
		FarFutureThresholdTicks: c.Sync.FarFutureThresholdTicks,
		DisabledCodecs:          codecs,
		DisabledContainers:      append([]string(nil), c.Sync.DisabledContainers...),
	}
}

// BindPFlags binds a command's persistent flags to the same viper keys
// Load reads, following the teacher's mustBindPFlag pattern in
// cmd/tvarr/cmd/root.go: a missing flag is a no-op (BindPFlags may be
// called before every flag is registered), a bind error is a
// programmer mistake and panics.
func BindPFlags(v *viper.Viper, flags *pflag.FlagSet) {
	mustBindPFlag(v, "logging.level", flags.Lookup("log-level"))
	mustBindPFlag(v, "logging.format", flags.Lookup("log-format"))
}

func mustBindPFlag(v *viper.Viper, key string, flag *pflag.Flag) {
	if flag == nil {
		return
	}
	if err := v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("failed to bind flag %q to key %q: %v", flag.Name, key, err))
	}
}
