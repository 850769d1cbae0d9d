// Package config provides configuration management for the Prop Scout engine.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment variables.
// Environment variable placeholders in the YAML file (${VAR_NAME}) are
// expanded before parsing.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional
// fields. A missing config file is not an error; defaults plus environment
// variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("PROP_SCOUT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "prop-scout")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("scoring.model_version", "v1.0.0")
	v.SetDefault("scoring.variance", 25.0)
	v.SetDefault("scoring.weight_7", 0.4)
	v.SetDefault("scoring.weight_14", 0.3)
	v.SetDefault("scoring.weight_30", 0.2)
	v.SetDefault("scoring.weight_season", 0.1)
	v.SetDefault("evaluation.value_bet_threshold", 0.05)
	v.SetDefault("evaluation.lookback_days", 30)
	v.SetDefault("scan.workers", 8)
	v.SetDefault("scan.schedule", "0 16 * * *")
	v.SetDefault("scan.reconcile_interval_seconds", 900)
	v.SetDefault("scan.evaluate_schedule", "0 6 * * *")
	v.SetDefault("provider.timeout_seconds", 30)
	v.SetDefault("provider.max_retries", 5)
	v.SetDefault("provider.rate_limit", 5.0)
	v.SetDefault("provider.cache_ttl_seconds", 300)
	v.SetDefault("provider.circuit_breaker_max", 5)
	v.SetDefault("provider.circuit_breaker_cooldown_seconds", 30)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")
}
