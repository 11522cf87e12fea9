package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Config struct {
	Addr                string `yaml:"addr"`
	BaseURL             string `yaml:"base_url"`
	StoreDriver         string `yaml:"store_driver"`
	PostgresDSN         string `yaml:"postgres_dsn"`
	RedisURL            string `yaml:"redis_url"`
	RedisTTLSeconds     int    `yaml:"redis_ttl_seconds"`
	StoreTimeoutSeconds int    `yaml:"store_timeout_seconds"`
	Log                 Log    `yaml:"log"`
}

func Default() Config {
	return Config{
		Addr:                ":8080",
		StoreDriver:         DriverMemory,
		StoreTimeoutSeconds: 5,
		Log:                 Log{Level: "info", Format: "console"},
	}
}

// Load builds the config from defaults, an optional YAML file, and environment
// overrides, in that order. A .env file is honored when present.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		path = strings.TrimSpace(os.Getenv("STATEMARK_CONFIG"))
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.Addr = strEnv("STATEMARK_ADDR", cfg.Addr)
	cfg.BaseURL = strEnv("STATEMARK_BASE_URL", cfg.BaseURL)
	cfg.StoreDriver = strEnv("STATEMARK_STORE_DRIVER", cfg.StoreDriver)
	cfg.PostgresDSN = strEnv("STATEMARK_DB_DSN", cfg.PostgresDSN)
	cfg.RedisURL = strEnv("STATEMARK_REDIS_URL", cfg.RedisURL)
	cfg.RedisTTLSeconds = intEnv("STATEMARK_REDIS_TTL_SECONDS", cfg.RedisTTLSeconds)
	cfg.StoreTimeoutSeconds = intEnv("STATEMARK_STORE_TIMEOUT_SECONDS", cfg.StoreTimeoutSeconds)
	cfg.Log.Level = strEnv("STATEMARK_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = strEnv("STATEMARK_LOG_FORMAT", cfg.Log.Format)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StoreDriver {
	case DriverPostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			return fmt.Errorf("store driver %q requires STATEMARK_DB_DSN", c.StoreDriver)
		}
	case DriverRedis:
		if strings.TrimSpace(c.RedisURL) == "" {
			return fmt.Errorf("store driver %q requires STATEMARK_REDIS_URL", c.StoreDriver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	if c.StoreTimeoutSeconds <= 0 {
		return fmt.Errorf("store timeout must be positive, got %d", c.StoreTimeoutSeconds)
	}
	return nil
}

func (c Config) StoreTimeout() time.Duration {
	return time.Duration(c.StoreTimeoutSeconds) * time.Second
}

func (c Config) RedisTTL() time.Duration {
	return time.Duration(c.RedisTTLSeconds) * time.Second
}

func strEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func intEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
