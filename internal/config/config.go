package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ScriptPath string

	StatsBackend  string // memory, redis or postgres
	StatsKey      string
	StatsTimeout  time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	DatabaseURL   string

	AudioPlayer string
	VideoPlayer string
	MetricsAddr string

	LogFile   string
	LogLevel  string
	LogFormat string

	GeminiAPIKey string
	Seed         uint64
}

// LoadConfig loads the configuration from .env and environment variables.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ScriptPath:    os.Getenv("SCRIPT_PATH"),
		StatsBackend:  getenv("STATS_BACKEND", "memory"),
		StatsKey:      getenv("STATS_KEY", "global"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		AudioPlayer:   os.Getenv("AUDIO_PLAYER"),
		VideoPlayer:   os.Getenv("VIDEO_PLAYER"),
		MetricsAddr:   os.Getenv("METRICS_ADDR"),
		LogFile:       getenv("LOG_FILE", "rigged-rps.log"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		LogFormat:     getenv("LOG_FORMAT", "json"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
	}

	var err error
	if cfg.StatsTimeout, err = time.ParseDuration(getenv("STATS_TIMEOUT", "5s")); err != nil {
		return nil, fmt.Errorf("STATS_TIMEOUT: %w", err)
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if cfg.RedisDB, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("REDIS_DB: %w", err)
		}
	}
	if v := os.Getenv("SEED"); v != "" {
		if cfg.Seed, err = strconv.ParseUint(v, 10, 64); err != nil {
			return nil, fmt.Errorf("SEED: %w", err)
		}
	}

	switch cfg.StatsBackend {
	case "memory":
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR environment variable is not set")
		}
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
		}
	default:
		return nil, fmt.Errorf("unknown STATS_BACKEND %q", cfg.StatsBackend)
	}

	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
