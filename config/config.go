package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config carries the process-wide settings read from the environment at
// startup. Postgres and Redis keep their own Init* entry points below.
type Config struct {
	Port string

	// Token signing
	SecretKey      string
	Algorithm      string
	AccessTokenTTL time.Duration

	// Vertex AI
	GoogleProject  string
	GoogleLocation string
	GeminiModel    string

	// Optional backends
	RedisAddr string
	GCSBucket string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:           getenv("PORT", "8080"),
		SecretKey:      os.Getenv("SECRET_KEY"),
		Algorithm:      getenv("ALGORITHM", "HS256"),
		GoogleProject:  os.Getenv("GOOGLE_CLOUD_PROJECT"),
		GoogleLocation: getenv("GOOGLE_CLOUD_LOCATION", "us-central1"),
		GeminiModel:    getenv("GEMINI_MODEL", "gemini-2.5-flash"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		GCSBucket:      os.Getenv("GCS_BUCKET"),
	}

	if cfg.SecretKey == "" {
		return nil, errors.New("SECRET_KEY environment variable is not set")
	}
	if cfg.GoogleProject == "" {
		return nil, errors.New("GOOGLE_CLOUD_PROJECT environment variable is not set")
	}

	minutes := 30
	if v := os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES: %w", err)
		}
		minutes = n
	}
	cfg.AccessTokenTTL = time.Duration(minutes) * time.Minute

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
