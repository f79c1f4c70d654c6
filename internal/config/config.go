package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	// Server
	Port int
	Env  string

	// CORS
	AllowedOrigins []string

	// Lookup tables
	IDsDir string

	// Inference
	ModelURL         string
	ModelName        string
	ModelWeightsPath string
	InferenceTimeout time.Duration

	// Sessions
	RedisURL   string
	SessionTTL time.Duration

	// Audit sinks (optional)
	ClickHouseURL string
	PostgresURL   string

	// Worker pool
	WorkerCount   int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration

	// Rate limiting
	RateLimitPerSecond int
	RateLimitBurst     int
}

// fileConfig mirrors Config for the optional TOML file named by CONFIG_FILE.
// Durations are written as strings ("5s", "24h").
type fileConfig struct {
	Server struct {
		Port           int      `toml:"port"`
		Env            string   `toml:"env"`
		AllowedOrigins []string `toml:"allowed_origins"`
	} `toml:"server"`
	Lookup struct {
		Dir string `toml:"dir"`
	} `toml:"lookup"`
	Model struct {
		URL         string `toml:"url"`
		Name        string `toml:"name"`
		WeightsPath string `toml:"weights_path"`
		Timeout     string `toml:"timeout"`
	} `toml:"model"`
	Session struct {
		RedisURL string `toml:"redis_url"`
		TTL      string `toml:"ttl"`
	} `toml:"session"`
	Audit struct {
		ClickHouseURL string `toml:"clickhouse_url"`
		PostgresURL   string `toml:"postgres_url"`
		WorkerCount   int    `toml:"worker_count"`
		QueueSize     int    `toml:"queue_size"`
		BatchSize     int    `toml:"batch_size"`
		FlushInterval string `toml:"flush_interval"`
	} `toml:"audit"`
	RateLimit struct {
		PerSecond int `toml:"per_second"`
		Burst     int `toml:"burst"`
	} `toml:"rate_limit"`
}

// Load loads configuration from environment variables. Values from the TOML
// file named by CONFIG_FILE act as defaults that the environment overrides.
// It returns an error if critical configuration is missing.
func Load() (*Config, error) {
	var fc fileConfig
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
		}
		if err := toml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	}

	cfg := &Config{
		Port: getEnvInt("PORT", or(fc.Server.Port, 8080)),
		Env:  getEnv("ENV", or(fc.Server.Env, "development")),

		IDsDir: getEnv("IDS_DIR", or(fc.Lookup.Dir, "ids")),

		ModelURL:         getEnv("MODEL_URL", fc.Model.URL),
		ModelName:        getEnv("MODEL_NAME", or(fc.Model.Name, "tennis")),
		ModelWeightsPath: getEnv("MODEL_WEIGHTS_PATH", fc.Model.WeightsPath),
		InferenceTimeout: getEnvDuration("INFERENCE_TIMEOUT", parseDuration(fc.Model.Timeout, 5*time.Second)),

		RedisURL:   getEnv("REDIS_URL", fc.Session.RedisURL),
		SessionTTL: getEnvDuration("SESSION_TTL", parseDuration(fc.Session.TTL, 24*time.Hour)),

		ClickHouseURL: getEnv("CLICKHOUSE_URL", fc.Audit.ClickHouseURL),
		PostgresURL:   getEnv("POSTGRES_URL", fc.Audit.PostgresURL),

		WorkerCount:   getEnvInt("WORKER_COUNT", or(fc.Audit.WorkerCount, 2)),
		QueueSize:     getEnvInt("QUEUE_SIZE", or(fc.Audit.QueueSize, 1000)),
		BatchSize:     getEnvInt("BATCH_SIZE", or(fc.Audit.BatchSize, 100)),
		FlushInterval: getEnvDuration("FLUSH_INTERVAL", parseDuration(fc.Audit.FlushInterval, time.Second)),

		RateLimitPerSecond: getEnvInt("RATE_LIMIT_PER_SECOND", or(fc.RateLimit.PerSecond, 5)),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", or(fc.RateLimit.Burst, 10)),
	}

	// CORS
	origins := getEnv("ALLOWED_ORIGINS", strings.Join(fc.Server.AllowedOrigins, ","))
	if origins == "" {
		origins = "http://localhost:3000"
	}
	for _, o := range strings.Split(origins, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	// Critical configuration - fail if missing
	if cfg.ModelURL == "" && cfg.ModelWeightsPath == "" {
		return nil, fmt.Errorf("missing required environment variable: MODEL_URL or MODEL_WEIGHTS_PATH")
	}

	return cfg, nil
}

// IsDevelopment reports whether the development logger should be used
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
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

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

func or[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}
	return v
}
