// Package config handles tool configuration loading using viper.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"firestige.xyz/nxwire/internal/log"
)

// Config is the top-level tool configuration.
type Config struct {
	Log *log.LoggerConfig `mapstructure:"log"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{Log: log.DefaultConfig()}
}

// Load reads a YAML config file. Environment variables prefixed with
// NXWIRE_ override file values.
func Load(path string) (*Config, error) {
	v := viper.New()

	dir := filepath.Dir(path)
	filename := filepath.Base(path)
	ext := filepath.Ext(filename)

	v.SetConfigName(strings.TrimSuffix(filename, ext))
	v.SetConfigType(strings.TrimPrefix(ext, "."))
	v.AddConfigPath(dir)

	v.SetEnvPrefix("NXWIRE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Log == nil {
		cfg.Log = log.DefaultConfig()
	}
	if cfg.Log.Pattern == "" {
		cfg.Log.Pattern = log.DefaultConfig().Pattern
	}
	if cfg.Log.Time == "" {
		cfg.Log.Time = log.DefaultConfig().Time
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}
