package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the CLI configuration loaded from .env files and environment variables.
type Config struct {
	BaseURL        string        `mapstructure:"market_base_url"`
	SessionDB      string        `mapstructure:"market_session_db"`
	LogLevel       string        `mapstructure:"market_log_level"`
	LogFormat      string        `mapstructure:"market_log_format"`
	TimeoutSeconds int64         `mapstructure:"market_timeout_seconds"`
	MaxRetries     int           `mapstructure:"market_max_retries"`
	SentryDSN      string        `mapstructure:"market_sentry_dsn"`
	Timeout        time.Duration `mapstructure:"-"`
}

// Load reads configuration from envFile (when present) and the environment.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}

	v := viper.New()

	v.SetDefault("market_base_url", "http://localhost:8080")
	v.SetDefault("market_session_db", "./.market/session.db")
	v.SetDefault("market_log_level", "warn")
	v.SetDefault("market_log_format", "console")
	v.SetDefault("market_timeout_seconds", 0)
	v.SetDefault("market_max_retries", 0)
	v.SetDefault("market_sentry_dsn", "")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("market_base_url must not be empty")
	}
	if cfg.TimeoutSeconds < 0 {
		return nil, fmt.Errorf("invalid market_timeout_seconds (must not be negative, 0 disables)")
	}
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("invalid market_max_retries (must not be negative)")
	}
	cfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second

	return &cfg, nil
}
