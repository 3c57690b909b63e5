// Package config loads the crawler's runtime configuration from
// environment variables (and an optional .env file), following the
// spec's §6 variable names and defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every tunable the crawl pipeline reads at startup.
type Config struct {
	RedisURL string `mapstructure:"redis_url"`
	BotName  string `mapstructure:"bot_name"`

	RequestTimeoutMS  int `mapstructure:"request_timeout_ms"`
	MaxRetries        int `mapstructure:"max_retries"`
	BetweenRequestsMS int `mapstructure:"between_requests_ms"`

	GlobalConcurrency    int `mapstructure:"global_concurrency"`
	PerHostMinTimeMS     int `mapstructure:"per_host_min_time_ms"`
	PerHostMaxConcurrent int `mapstructure:"per_host_max_concurrent"`

	WorkerConcurrency int `mapstructure:"worker_concurrency"`

	EnableCache    bool `mapstructure:"enable_cache"`
	EnableMXCheck  bool `mapstructure:"enable_mx_check"`

	LogLevel string `mapstructure:"log_level"`
}

// RequestTimeout returns RequestTimeoutMS as a time.Duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// BetweenRequests returns BetweenRequestsMS as a time.Duration.
func (c Config) BetweenRequests() time.Duration {
	return time.Duration(c.BetweenRequestsMS) * time.Millisecond
}

// PerHostMinTime returns PerHostMinTimeMS as a time.Duration.
func (c Config) PerHostMinTime() time.Duration {
	return time.Duration(c.PerHostMinTimeMS) * time.Millisecond
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bot_name", "CSV-Webcrawler/2.0")
	v.SetDefault("request_timeout_ms", 12000)
	v.SetDefault("max_retries", 3)
	v.SetDefault("between_requests_ms", 150)
	v.SetDefault("global_concurrency", 8)
	v.SetDefault("per_host_min_time_ms", 1000)
	v.SetDefault("per_host_max_concurrent", 1)
	v.SetDefault("worker_concurrency", 2)
	v.SetDefault("enable_cache", true)
	v.SetDefault("enable_mx_check", false)
	v.SetDefault("log_level", "info")
}

// Load reads configuration from environment variables (and a .env file
// if present), applying the spec's documented defaults.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "config: no .env file found: %v\n", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	bindEnv(v, "redis_url", "REDIS_URL")
	bindEnv(v, "bot_name", "BOT_NAME")
	bindEnv(v, "request_timeout_ms", "REQUEST_TIMEOUT_MS")
	bindEnv(v, "max_retries", "MAX_RETRIES")
	bindEnv(v, "between_requests_ms", "BETWEEN_REQUESTS_MS")
	bindEnv(v, "global_concurrency", "GLOBAL_CONCURRENCY")
	bindEnv(v, "per_host_min_time_ms", "PER_HOST_MIN_TIME_MS")
	bindEnv(v, "per_host_max_concurrent", "PER_HOST_MAX_CONCURRENT")
	bindEnv(v, "worker_concurrency", "WORKER_CONCURRENCY")
	bindEnv(v, "enable_cache", "ENABLE_CACHE")
	bindEnv(v, "enable_mx_check", "ENABLE_MX_CHECK")
	bindEnv(v, "log_level", "LOG_LEVEL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, nil
}

func bindEnv(v *viper.Viper, key, envVar string) {
	if err := v.BindEnv(key, envVar); err != nil {
		fmt.Fprintf(os.Stderr, "config: failed to bind %s: %v\n", envVar, err)
	}
}
