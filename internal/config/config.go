package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	APIToken              string        `mapstructure:"leakradar_api_token"`
	APIBaseURL            string        `mapstructure:"leakradar_base_url"`
	UserAgent             string        `mapstructure:"user_agent"`
	RequestTimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	RequestTimeout        time.Duration `mapstructure:"-"`

	QueriesFile          string        `mapstructure:"queries_file"`
	SinksFile            string        `mapstructure:"sinks_file"`
	WatchIntervalSeconds int64         `mapstructure:"watch_interval"`
	WatchInterval        time.Duration `mapstructure:"-"`
	MetricsAddr          string        `mapstructure:"metrics_addr"`
	ExportDir            string        `mapstructure:"export_dir"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "leakradar-watch")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("leakradar_api_token", "")
	v.SetDefault("leakradar_base_url", "")
	v.SetDefault("user_agent", "")
	v.SetDefault("request_timeout_seconds", 30)
	v.SetDefault("queries_file", "./configs/queries.yaml")
	v.SetDefault("sinks_file", "./configs/sinks.yaml")
	v.SetDefault("watch_interval", 900) // seconds
	v.SetDefault("metrics_addr", "")
	v.SetDefault("export_dir", "./exports")
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/seen.db")
	v.SetDefault("storage_ttl_seconds", int64((30*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.RequestTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid request_timeout_seconds (must be positive seconds)")
	}
	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second

	if cfg.WatchIntervalSeconds <= 0 {
		return nil, fmt.Errorf("invalid watch_interval (must be positive seconds)")
	}
	cfg.WatchInterval = time.Duration(cfg.WatchIntervalSeconds) * time.Second

	if cfg.StorageTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return &cfg, nil
}

// Redacted returns a loggable view of the config with the API token masked.
func (c *Config) Redacted() map[string]any {
	if c == nil {
		return nil
	}
	return map[string]any{
		"app_name":       c.AppName,
		"app_env":        c.Env,
		"log_level":      c.LogLevel,
		"base_url":       c.APIBaseURL,
		"token_present":  c.APIToken != "",
		"queries_file":   c.QueriesFile,
		"sinks_file":     c.SinksFile,
		"watch_interval": c.WatchInterval.String(),
		"metrics_addr":   c.MetricsAddr,
		"export_dir":     c.ExportDir,
		"storage_type":   c.StorageType,
	}
}
