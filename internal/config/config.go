// Package config provides configuration management for the Prop Scout engine.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	Provider   ProviderConfig   `mapstructure:"provider" validate:"required"`
	Scoring    ScoringConfig    `mapstructure:"scoring" validate:"required"`
	Evaluation EvaluationConfig `mapstructure:"evaluation" validate:"required"`
	Scan       ScanConfig       `mapstructure:"scan" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required"`
	User           string `mapstructure:"user" validate:"required"`
	Password       string `mapstructure:"password" validate:"required"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"required,gt=0"`
}

// ProviderConfig represents the sports-data provider API configuration
type ProviderConfig struct {
	BaseURL                       string  `mapstructure:"base_url" validate:"required,url"`
	APIKey                        string  `mapstructure:"api_key" validate:"required"`
	TimeoutSeconds                int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries                    int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit                     float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	CacheTTLSeconds               int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	CircuitBreakerMax             int     `mapstructure:"circuit_breaker_max" validate:"required,gt=0"`
	CircuitBreakerCooldownSeconds int     `mapstructure:"circuit_breaker_cooldown_seconds" validate:"required,gt=0"`
}

// ScoringConfig represents prediction scoring configuration
type ScoringConfig struct {
	ModelVersion string  `mapstructure:"model_version" validate:"required"`
	Variance     float64 `mapstructure:"variance" validate:"required,gt=0"`
	Weight7      float64 `mapstructure:"weight_7" validate:"gte=0,lte=1"`
	Weight14     float64 `mapstructure:"weight_14" validate:"gte=0,lte=1"`
	Weight30     float64 `mapstructure:"weight_30" validate:"gte=0,lte=1"`
	WeightSeason float64 `mapstructure:"weight_season" validate:"gte=0,lte=1"`
	Season       int     `mapstructure:"season" validate:"required,gt=0"`
}

// EvaluationConfig represents model performance evaluation configuration
type EvaluationConfig struct {
	ValueBetThreshold float64 `mapstructure:"value_bet_threshold" validate:"required,gt=0,lte=1"`
	LookbackDays      int     `mapstructure:"lookback_days" validate:"required,gt=0"`
}

// ScanConfig represents scan cycle and scheduling configuration
type ScanConfig struct {
	Workers                  int    `mapstructure:"workers" validate:"required,gt=0"`
	Schedule                 string `mapstructure:"schedule" validate:"required,cronexpr"`
	ReconcileIntervalSeconds int    `mapstructure:"reconcile_interval_seconds" validate:"required,gt=0"`
	EvaluateSchedule         string `mapstructure:"evaluate_schedule" validate:"required,cronexpr"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// ProviderTimeout returns the provider request timeout as a duration
func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.Provider.TimeoutSeconds) * time.Second
}

// ReconcileInterval returns the reconcile polling cadence as a duration
func (c *Config) ReconcileInterval() time.Duration {
	return time.Duration(c.Scan.ReconcileIntervalSeconds) * time.Second
}

// CircuitBreakerCooldown returns the breaker cooldown as a duration
func (c *Config) CircuitBreakerCooldown() time.Duration {
	return time.Duration(c.Provider.CircuitBreakerCooldownSeconds) * time.Second
}
