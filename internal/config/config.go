package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Server
	Port        int
	MetricsPort int
	Env         string

	// CORS
	AllowedOrigins []string

	// Prediction store
	StoreDriver  string
	StoreURL     string
	DatabaseName string
	Collection   string
	QueryTimeout time.Duration

	// Cache
	RedisURL string
	CacheTTL time.Duration

	ShutdownTimeout time.Duration
}

// fileConfig is the optional YAML layer. Every key is optional.
type fileConfig struct {
	Port            int      `yaml:"port"`
	MetricsPort     int      `yaml:"metrics_port"`
	Env             string   `yaml:"env"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
	StoreDriver     string   `yaml:"store_driver"`
	StoreURL        string   `yaml:"predictions_db_url"`
	DatabaseName    string   `yaml:"predictions_db_name"`
	Collection      string   `yaml:"predictions_collection"`
	QueryTimeout    string   `yaml:"query_timeout"`
	RedisURL        string   `yaml:"redis_url"`
	CacheTTL        string   `yaml:"cache_ttl"`
	ShutdownTimeout string   `yaml:"shutdown_timeout"`
}

// Load builds the configuration from defaults, then the YAML file at path
// (skipped when path is empty), then a .env file in the working directory,
// then the process environment. Nothing is required: a missing store URL is
// reported by the store on first use.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Port:            8080,
		MetricsPort:     9095,
		Env:             "development",
		AllowedOrigins:  []string{"http://localhost:3000"},
		StoreDriver:     "mongo",
		DatabaseName:    "afldata",
		Collection:      "predictions",
		QueryTimeout:    10 * time.Second,
		CacheTTL:        30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}

	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	// .env never overrides variables already set in the environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg.Port = getEnvInt("PORT", cfg.Port)
	cfg.MetricsPort = getEnvInt("METRICS_PORT", cfg.MetricsPort)
	cfg.Env = getEnv("ENV", cfg.Env)

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = splitList(origins)
	}

	cfg.StoreDriver = getEnv("STORE_DRIVER", cfg.StoreDriver)
	cfg.StoreURL = getEnv("PREDICTIONS_DB_URL", cfg.StoreURL)
	cfg.DatabaseName = getEnv("PREDICTIONS_DB_NAME", cfg.DatabaseName)
	cfg.Collection = getEnv("PREDICTIONS_COLLECTION", cfg.Collection)
	cfg.QueryTimeout = getEnvDuration("QUERY_TIMEOUT", cfg.QueryTimeout)

	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.CacheTTL = getEnvDuration("CACHE_TTL", cfg.CacheTTL)

	cfg.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	var fc fileConfig
	if err := yaml.NewDecoder(f).Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.Port != 0 {
		c.Port = fc.Port
	}
	if fc.MetricsPort != 0 {
		c.MetricsPort = fc.MetricsPort
	}
	setString(&c.Env, fc.Env)
	if len(fc.AllowedOrigins) > 0 {
		c.AllowedOrigins = fc.AllowedOrigins
	}
	setString(&c.StoreDriver, fc.StoreDriver)
	setString(&c.StoreURL, fc.StoreURL)
	setString(&c.DatabaseName, fc.DatabaseName)
	setString(&c.Collection, fc.Collection)
	setString(&c.RedisURL, fc.RedisURL)

	durations := []struct {
		key string
		raw string
		dst *time.Duration
	}{
		{"query_timeout", fc.QueryTimeout, &c.QueryTimeout},
		{"cache_ttl", fc.CacheTTL, &c.CacheTTL},
		{"shutdown_timeout", fc.ShutdownTimeout, &c.ShutdownTimeout},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("config file %s: %s: %w", path, d.key, err)
		}
		*d.dst = v
	}
	return nil
}

// Addr is the API listen address
func (c *Config) Addr() string { return ":" + strconv.Itoa(c.Port) }

// MetricsAddr is the metrics and health listen address
func (c *Config) MetricsAddr() string { return ":" + strconv.Itoa(c.MetricsPort) }

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
