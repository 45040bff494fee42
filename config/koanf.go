package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/filmpivot/config.yaml",
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
// Variables not listed here are ignored.
var envMappings = map[string]string{
	"http_host":                "server.host",
	"http_port":                "server.port",
	"port":                     "server.port",
	"http_read_timeout":        "server.read_timeout",
	"http_write_timeout":       "server.write_timeout",
	"http_shutdown_timeout":    "server.shutdown_timeout",
	"cors_allowed_origins":     "server.allowed_origins",
	"database_path":            "database.path",
	"tmdb_api_key":             "tmdb.api_key",
	"tmdb_base_url":            "tmdb.base_url",
	"tmdb_timeout":             "tmdb.timeout",
	"tmdb_requests_per_second": "tmdb.requests_per_second",
	"tmdb_burst":               "tmdb.burst",
	"tmdb_max_company_pages":   "tmdb.max_company_pages",
	"cache_ttl":                "cache.ttl",
	"history_default_limit":    "history.default_limit",
	"history_max_limit":        "history.max_limit",
	"log_level":                "logging.level",
	"log_format":               "logging.format",
	"log_file":                 "logging.file",
	"log_max_size_mb":          "logging.max_size_mb",
	"log_max_backups":          "logging.max_backups",
	"log_max_age_days":         "logging.max_age_days",
	"log_compress":             "logging.compress",
	"rate_limit_per_minute":    "rate_limit.requests_per_minute",
	"rate_limit_burst":         "rate_limit.burst",
	"identity_webhook_secret":  "webhooks.identity_secret",
	"billing_webhook_secret":   "webhooks.billing_secret",
}

// sliceKeys are populated from comma-separated environment values.
var sliceKeys = []string{"server.allowed_origins"}

// Load builds the configuration from defaults, the config file (if any) and
// the environment, then validates it.
func Load() (*Config, error) {
	return load(findConfigFile())
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	for _, key := range sliceKeys {
		raw, ok := k.Get(key).(string)
		if !ok {
			continue
		}
		if err := k.Set(key, splitList(raw)); err != nil {
			return nil, fmt.Errorf("set %s: %w", key, err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

func findConfigFile() string {
	if path := strings.TrimSpace(os.Getenv(ConfigPathEnvVar)); path != "" {
		return path
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
