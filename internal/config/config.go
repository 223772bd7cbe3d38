// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Sheet retrieval
	Source         string // loaded at startup; path, http(s) URL or s3://bucket/key
	FetchTimeout   time.Duration
	MaxSourceBytes int64

	// URL prefixes POST /api/load may fetch besides Source. Empty means
	// only Source and uploads.
	AllowedSources []string

	// Valkey (Redis-compatible cache). Caching is off when ValkeyHost is empty.
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	SourceCacheTTL time.Duration

	// S3-compatible object storage for s3:// sources
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string

	// Per-IP limit on POST /api/load
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. It returns an error for values that
// do not parse, or if no source is configured in production.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		Source: os.Getenv("PBCSV_SOURCE"),

		ValkeyHost:     os.Getenv("VALKEY_HOST"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "fsn1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
	}

	var err error
	if cfg.FetchTimeout, err = durationOrDefault("FETCH_TIMEOUT", 20*time.Second); err != nil {
		return nil, err
	}
	if cfg.SourceCacheTTL, err = durationOrDefault("SOURCE_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.MaxSourceBytes, err = intOrDefault("MAX_SOURCE_BYTES", 10<<20); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = floatOrDefault("RATE_LIMIT_RPS", 1); err != nil {
		return nil, err
	}
	burst, err := intOrDefault("RATE_LIMIT_BURST", 10)
	if err != nil {
		return nil, err
	}
	cfg.RateLimitBurst = int(burst)

	if cfg.AllowedSources, err = urlList("PBCSV_ALLOWED_SOURCES"); err != nil {
		return nil, err
	}

	if cfg.Env == "production" && cfg.Source == "" {
		return nil, fmt.Errorf("PBCSV_SOURCE must be set in production")
	}

	return cfg, nil
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// CacheEnabled reports whether fetched sources should be cached in Valkey.
func (c *Config) CacheEnabled() bool {
	return c.ValkeyHost != ""
}

// S3Enabled reports whether s3:// sources can be read.
func (c *Config) S3Enabled() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOrDefault(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}

func intOrDefault(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return n, nil
}

func floatOrDefault(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if f <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return f, nil
}

// urlList reads a comma-separated list of absolute http(s) URLs.
func urlList(key string) ([]string, error) {
	var list []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		u, err := url.Parse(item)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("invalid %s: %q is not an http(s) URL", key, item)
		}
		list = append(list, item)
	}
	return list, nil
}
