package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds runtime settings for the server.
type Config struct {
	Port         string
	FrontendPath string
	CORSOrigins  []string

	// MetricsInterval is how often the catalog gauges are recomputed
	MetricsInterval time.Duration

	Database DatabaseConfig
	Pricing  PricingConfig
	Log      LogConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path  string
	Debug bool
}

// PricingConfig holds pricing source and aggregation settings.
type PricingConfig struct {
	APIKey        string
	BaseURL       string
	USDToEUR      float64
	Timeout       time.Duration
	RatePerSecond float64
	CacheSize     int
	CacheTTL      time.Duration
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from defaults, an optional config file named by
// POKETRADE_CONFIG, and the environment. Environment variables use the flat
// names from the deployment docs (DB_PATH, USD_EUR_RATE, ...).
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("port", "3000")
	v.SetDefault("frontend_dist_path", "")
	v.SetDefault("cors_allowed_origins", "")
	v.SetDefault("db_path", "./data.db")
	v.SetDefault("db_debug", false)
	v.SetDefault("pokemontcg_api_key", "")
	v.SetDefault("pokemontcg_base_url", "")
	v.SetDefault("usd_eur_rate", 0.92)
	v.SetDefault("price_timeout", 10*time.Second)
	v.SetDefault("price_rate_per_sec", 5.0)
	v.SetDefault("price_cache_size", 512)
	v.SetDefault("price_cache_ttl", 10*time.Minute)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("metrics_interval", 30*time.Second)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path := v.GetString("poketrade_config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		Port:            v.GetString("port"),
		FrontendPath:    v.GetString("frontend_dist_path"),
		CORSOrigins:     splitList(v.GetString("cors_allowed_origins")),
		MetricsInterval: v.GetDuration("metrics_interval"),
		Database: DatabaseConfig{
			Path:  v.GetString("db_path"),
			Debug: v.GetBool("db_debug"),
		},
		Pricing: PricingConfig{
			APIKey:        v.GetString("pokemontcg_api_key"),
			BaseURL:       v.GetString("pokemontcg_base_url"),
			USDToEUR:      v.GetFloat64("usd_eur_rate"),
			Timeout:       v.GetDuration("price_timeout"),
			RatePerSecond: v.GetFloat64("price_rate_per_sec"),
			CacheSize:     v.GetInt("price_cache_size"),
			CacheTTL:      v.GetDuration("price_cache_ttl"),
		},
		Log: LogConfig{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the services cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("port must not be empty"))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("db_path must not be empty"))
	}
	if c.Pricing.USDToEUR <= 0 {
		errs = append(errs, fmt.Errorf("usd_eur_rate must be positive, got %v", c.Pricing.USDToEUR))
	}
	if c.Pricing.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("price_timeout must be positive, got %v", c.Pricing.Timeout))
	}
	if c.Pricing.RatePerSecond <= 0 {
		errs = append(errs, fmt.Errorf("price_rate_per_sec must be positive, got %v", c.Pricing.RatePerSecond))
	}
	if c.Pricing.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("price_cache_size must be positive, got %d", c.Pricing.CacheSize))
	}
	if c.Pricing.CacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("price_cache_ttl must be positive, got %v", c.Pricing.CacheTTL))
	}
	if c.MetricsInterval <= 0 {
		errs = append(errs, fmt.Errorf("metrics_interval must be positive, got %v", c.MetricsInterval))
	}
	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
