// Package config loads filmpivot settings from defaults, an optional YAML file
// and environment variables, in that order of precedence.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	TMDB      TMDBConfig      `koanf:"tmdb"`
	Cache     CacheConfig     `koanf:"cache"`
	History   HistoryConfig   `koanf:"history"`
	Logging   LoggingConfig   `koanf:"logging"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Webhooks  WebhookConfig   `koanf:"webhooks"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	AllowedOrigins  []string      `koanf:"allowed_origins"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig locates the SQLite database file.
type DatabaseConfig struct {
	Path string `koanf:"path" validate:"required"`
}

// TMDBConfig configures the outbound metadata source. APIKey may be empty at
// startup; calls fail with a configuration error until it is set.
type TMDBConfig struct {
	APIKey            string        `koanf:"api_key"`
	BaseURL           string        `koanf:"base_url" validate:"required,url"`
	Timeout           time.Duration `koanf:"timeout" validate:"gt=0"`
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"gt=0"`
	Burst             int           `koanf:"burst" validate:"gte=1"`
	MaxCompanyPages   int           `koanf:"max_company_pages" validate:"gte=1,lte=20"`
}

// CacheConfig controls metadata cache staleness.
type CacheConfig struct {
	TTL time.Duration `koanf:"ttl" validate:"gt=0"`
}

// HistoryConfig controls discovery history listings.
type HistoryConfig struct {
	DefaultLimit int `koanf:"default_limit" validate:"gte=1"`
	MaxLimit     int `koanf:"max_limit" validate:"gtefield=DefaultLimit"`
}

// LoggingConfig controls log level, format and optional file rotation.
type LoggingConfig struct {
	Level      string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format     string `koanf:"format" validate:"oneof=json console"`
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb" validate:"gte=1"`
	MaxBackups int    `koanf:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `koanf:"max_age_days" validate:"gte=0"`
	Compress   bool   `koanf:"compress"`
}

// RateLimitConfig controls the per-IP API rate limit.
type RateLimitConfig struct {
	RequestsPerMinute int `koanf:"requests_per_minute" validate:"gte=0"`
	Burst             int `koanf:"burst" validate:"gte=0"`
}

// WebhookConfig holds the shared secrets used to verify webhook signatures.
// An empty secret disables the corresponding webhook.
type WebhookConfig struct {
	IdentitySecret string `koanf:"identity_secret"`
	BillingSecret  string `koanf:"billing_secret"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Path: "data/filmpivot.db",
		},
		TMDB: TMDBConfig{
			BaseURL:           "https://api.themoviedb.org/3",
			Timeout:           10 * time.Second,
			RequestsPerSecond: 20,
			Burst:             10,
			MaxCompanyPages:   5,
		},
		Cache: CacheConfig{
			TTL: 7 * 24 * time.Hour,
		},
		History: HistoryConfig{
			DefaultLimit: 20,
			MaxLimit:     100,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 120,
			Burst:             30,
		},
	}
}

var validate = validator.New()

// Validate checks the configuration against its struct constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
