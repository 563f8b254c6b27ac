package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Match modes for keyword filtering
const (
	MatchModeAny = "any" // any single keyword triggers a match
	MatchModeAll = "all" // every configured keyword must be present
)

// Config represents the application configuration
type Config struct {
	Database  DatabaseConfig            `mapstructure:"database"`
	Platforms map[string]PlatformConfig `mapstructure:"platforms"`
	Monitor   MonitorConfig             `mapstructure:"monitor"`
	RateLimit RateLimitConfig           `mapstructure:"rate_limit"`
	Logging   LoggingConfig             `mapstructure:"logging"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"` // SQLite file path
}

// PlatformConfig holds per-platform fetch settings
type PlatformConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	Users    []string `mapstructure:"users"`     // explicitly monitored user IDs
	MaxPosts int      `mapstructure:"max_posts"` // max posts per fetch cycle
}

// MonitorConfig holds the monitoring engine settings
type MonitorConfig struct {
	Enabled       bool     `mapstructure:"enabled"`
	Interval      int      `mapstructure:"interval"` // seconds between ticks
	Keywords      []string `mapstructure:"keywords"`
	MatchMode     string   `mapstructure:"match_mode"` // any or all
	Notify        bool     `mapstructure:"notify"`
	MaxConcurrent int      `mapstructure:"max_concurrent"` // concurrent fetch bound
}

// RateLimitConfig holds source politeness settings
type RateLimitConfig struct {
	SourceRequestsPerSecond float64 `mapstructure:"source_requests_per_second"`
	Burst                   int     `mapstructure:"burst"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or console
	Output string `mapstructure:"output"` // stdout or file path
}

// Load loads configuration from file and environment variables and wraps
// it in a Manager that owns subsequent mutations.
func Load(configPath string) (*Manager, error) {
	// Load .env file if present (ignore errors if not found)
	_ = godotenv.Load()
	_ = godotenv.Load(".env.local")

	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in current directory and configs folder
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")

		// Also check user's home directory
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".social-monitor"))
		}
	}

	// Environment variables
	v.SetEnvPrefix("MONITOR")
	v.AutomaticEnv()

	// Explicit bindings for nested keys (Viper doesn't auto-bind underscored nested keys)
	v.BindEnv("database.dsn", "MONITOR_DATABASE_DSN")
	v.BindEnv("monitor.enabled", "MONITOR_MONITOR_ENABLED")
	v.BindEnv("monitor.interval", "MONITOR_MONITOR_INTERVAL")
	v.BindEnv("monitor.match_mode", "MONITOR_MONITOR_MATCH_MODE")
	v.BindEnv("logging.level", "MONITOR_LOGGING_LEVEL")
	v.BindEnv("logging.format", "MONITOR_LOGGING_FORMAT")

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return NewManager(&config, v), nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.dsn", "./data/monitor.db")

	// Platform defaults
	v.SetDefault("platforms.weibo.enabled", true)
	v.SetDefault("platforms.weibo.users", []string{})
	v.SetDefault("platforms.weibo.max_posts", 50)

	v.SetDefault("platforms.douyin.enabled", true)
	v.SetDefault("platforms.douyin.users", []string{})
	v.SetDefault("platforms.douyin.max_posts", 50)

	v.SetDefault("platforms.rss.enabled", false)
	v.SetDefault("platforms.rss.users", []string{})
	v.SetDefault("platforms.rss.max_posts", 50)

	// Monitor defaults
	v.SetDefault("monitor.enabled", false)
	v.SetDefault("monitor.interval", 60)
	v.SetDefault("monitor.keywords", []string{})
	v.SetDefault("monitor.match_mode", MatchModeAny)
	v.SetDefault("monitor.notify", true)
	v.SetDefault("monitor.max_concurrent", 4)

	// Rate limit defaults
	v.SetDefault("rate_limit.source_requests_per_second", 1.0)
	v.SetDefault("rate_limit.burst", 5)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stdout")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Monitor.MatchMode != MatchModeAny && c.Monitor.MatchMode != MatchModeAll {
		return fmt.Errorf("monitor.match_mode must be %q or %q, got %q",
			MatchModeAny, MatchModeAll, c.Monitor.MatchMode)
	}
	if c.Monitor.Interval <= 0 {
		return fmt.Errorf("monitor.interval must be positive, got %d", c.Monitor.Interval)
	}
	if c.Monitor.MaxConcurrent <= 0 {
		return fmt.Errorf("monitor.max_concurrent must be positive, got %d", c.Monitor.MaxConcurrent)
	}
	return nil
}
