// Package config provides configuration management for the Courtside service.
package config

import "fmt"

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	StatsAPI   StatsAPIConfig   `mapstructure:"stats_api" validate:"required"`
	ModelStore ModelStoreConfig `mapstructure:"model_store" validate:"required"`
	Training   TrainingConfig   `mapstructure:"training" validate:"required"`
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents the game-log database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required"`
	User           string `mapstructure:"user" validate:"required"`
	Password       string `mapstructure:"password" validate:"required"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"required,gt=0"`
}

// StatsAPIConfig represents the NBA stats API client configuration
type StatsAPIConfig struct {
	BaseURL          string  `mapstructure:"base_url" validate:"required,url"`
	APIKey           string  `mapstructure:"api_key"`
	TimeoutSeconds   int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries       int     `mapstructure:"max_retries" validate:"required,gte=0"`
	RateLimit        float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	ThrottleSeconds  int     `mapstructure:"throttle_seconds" validate:"gte=0"`
	CurrentSeasonID  int     `mapstructure:"current_season_id" validate:"required,gt=20000"`
	RecentFormWindow int     `mapstructure:"recent_form_window" validate:"required,gt=0"`
}

// ModelStoreConfig represents the model artifact store configuration
type ModelStoreConfig struct {
	Backend   string `mapstructure:"backend" validate:"required,oneof=s3 filesystem"`
	Bucket    string `mapstructure:"bucket" validate:"required_if=Backend s3"`
	Region    string `mapstructure:"region" validate:"required_if=Backend s3"`
	LocalPath string `mapstructure:"local_path" validate:"required_if=Backend filesystem"`
}

// TrainingConfig represents training pipeline configuration
type TrainingConfig struct {
	SeasonFloor      int      `mapstructure:"season_floor" validate:"required,gt=20000"`
	SeasonThreshold  int      `mapstructure:"season_threshold" validate:"required,gt=20000"`
	RollingWindow    int      `mapstructure:"rolling_window" validate:"required,gt=1"`
	Alpha            float64  `mapstructure:"alpha" validate:"required,gt=0"`
	Players          []string `mapstructure:"players"`
	Stats            []string `mapstructure:"stats" validate:"omitempty,dive,stat"`
	PopulateSchedule string   `mapstructure:"populate_schedule"`
}

// ServerConfig represents the HTTP serving surface configuration
type ServerConfig struct {
	Host            string `mapstructure:"host" validate:"required"`
	Port            int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSec  int    `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSec int    `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
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

// GetDatabaseDSN builds the postgres connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
