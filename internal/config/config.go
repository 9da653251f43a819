// Package config provides configuration management for the retirement
// simulation engine.
package config

import (
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App     AppConfig     `mapstructure:"app" validate:"required"`
	Engine  EngineConfig  `mapstructure:"engine" validate:"required"`
	CMA     CMAConfig     `mapstructure:"cma" validate:"required"`
	Metrics MetricsConfig `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// EngineConfig represents simulation engine configuration
type EngineConfig struct {
	PathCount         int    `mapstructure:"path_count" validate:"required,gt=0"`
	DeadlineSeconds   int    `mapstructure:"deadline_seconds" validate:"required,gt=0"`
	Workers           int    `mapstructure:"workers" validate:"gte=0"`
	TrajectorySamples int    `mapstructure:"trajectory_samples" validate:"gte=0"`
	MasterSeed        uint64 `mapstructure:"master_seed"`
	OutputPath        string `mapstructure:"output_path"`
	TradeOffsEnabled  bool   `mapstructure:"trade_offs_enabled"`
}

// CMAConfig selects the capital market assumption source. An empty source
// means the built-in reference table.
type CMAConfig struct {
	Source  string `mapstructure:"source"`
	Version string `mapstructure:"version"`
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

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Deadline returns the engine deadline as a duration
func (c *Config) Deadline() time.Duration {
	return time.Duration(c.Engine.DeadlineSeconds) * time.Second
}
