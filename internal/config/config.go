// Package config loads application configuration from a YAML file and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix is the prefix of configuration environment variables.
// Double underscore separates sections: HASTKALA_JWT__SECRET_KEY -> jwt.secret_key.
const envPrefix = "HASTKALA_"

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Log       LogConfig       `koanf:"log"`
	JWT       JWTConfig       `koanf:"jwt"`
	CORS      CORSConfig      `koanf:"cors"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	AI        AIConfig        `koanf:"ai"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              string        `koanf:"port"`
	MetricsPort       string        `koanf:"metrics_port"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
}

// DatabaseConfig contains PostgreSQL settings.
type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnectTimeout  time.Duration `koanf:"connect_timeout"`
	ConnectAttempts int           `koanf:"connect_attempts"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// JWTConfig contains session token settings. SecretKey is required; the
// process refuses to start without it.
type JWTConfig struct {
	SecretKey string        `koanf:"secret_key"`
	TokenTTL  time.Duration `koanf:"token_ttl"`
}

// CORSConfig contains CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// RateLimitConfig contains per-client rate limiter settings.
type RateLimitConfig struct {
	RequestsPerMinute int `koanf:"requests_per_minute"`
	Burst             int `koanf:"burst"`
}

// AIConfig contains text-completion service settings. An empty APIKey
// disables the AI endpoints.
type AIConfig struct {
	BaseURL   string        `koanf:"base_url"`
	APIKey    string        `koanf:"api_key"`
	Model     string        `koanf:"model"`
	Timeout   time.Duration `koanf:"timeout"`
	RateLimit float64       `koanf:"rate_limit"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"server.host":                   "0.0.0.0",
		"server.port":                   "8080",
		"server.metrics_port":           "9090",
		"server.read_timeout":           "15s",
		"server.read_header_timeout":    "5s",
		"server.write_timeout":          "15s",
		"server.idle_timeout":           "60s",
		"database.max_open_conns":       10,
		"database.max_idle_conns":       2,
		"database.conn_max_lifetime":    "30m",
		"database.connect_timeout":      "30s",
		"database.connect_attempts":     3,
		"log.level":                     "info",
		"log.format":                    "json",
		"jwt.token_ttl":                 "168h",
		"cors.allowed_origins":          []string{"http://localhost:3000"},
		"rate_limit.requests_per_minute": 100,
		"ai.base_url":                   "https://generativelanguage.googleapis.com",
		"ai.model":                      "gemini-1.5-pro",
		"ai.timeout":                    "30s",
		"ai.rate_limit":                 1,
	}
}

// Load reads configuration from the optional YAML file at path, then overlays
// environment variables. It validates required fields.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("set default %s: %w", key, err)
		}
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("load config file %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envToKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func envToKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func (c *Config) validate() error {
	if c.JWT.SecretKey == "" {
		return errors.New("config: jwt.secret_key is required (HASTKALA_JWT__SECRET_KEY)")
	}
	if c.Database.URL == "" {
		return errors.New("config: database.url is required (HASTKALA_DATABASE__URL)")
	}
	return nil
}
