// Package config reads runtime settings from the environment, after loading an
// optional .env file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	Port     string
	LogLevel string

	SlotBackend    string
	RedisAddr      string
	RedisPassword  string
	RedisKeyPrefix string
	DatabaseURL    string

	RecommenderURL     string
	RecommenderTimeout time.Duration

	AuthDelay   time.Duration
	CatalogFile string

	// CORSOrigins lists browser origins allowed to call the API.
	CORSOrigins []string
}

// Load reads envFile when present and then the process environment.
func Load(envFile string, log logrus.FieldLogger) (Config, error) {
	if err := godotenv.Load(envFile); err != nil {
		log.WithField("file", envFile).Info("no env file found, using process environment")
	} else {
		log.WithField("file", envFile).Info("env file loaded")
	}

	return FromEnv()
}

func FromEnv() (Config, error) {
	cfg := Config{
		Port:           getenv("PORT", "8080"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		SlotBackend:    getenv("SLOT_BACKEND", BackendMemory),
		RedisAddr:      getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisKeyPrefix: getenv("REDIS_KEY_PREFIX", "stitchstyle:"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RecommenderURL: getenv("RECOMMENDER_URL", "http://localhost:3400"),
		CatalogFile:    os.Getenv("CATALOG_FILE"),
		CORSOrigins:    list(getenv("CORS_ORIGINS", "http://localhost:9002")),
	}

	var err error

	cfg.RecommenderTimeout, err = duration("RECOMMENDER_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, err
	}

	cfg.AuthDelay, err = duration("AUTH_DELAY", time.Second)
	if err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.SlotBackend {
	case BackendMemory:
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is empty")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is empty")
		}
	default:
		return fmt.Errorf("SLOT_BACKEND[%s] is not supported", c.SlotBackend)
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL[%s] is not valid: %w", c.LogLevel, err)
	}

	if c.RecommenderTimeout <= 0 {
		return fmt.Errorf("RECOMMENDER_TIMEOUT must be positive")
	}

	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func duration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s[%s] is not a duration: %w", key, v, err)
	}
	return d, nil
}

func list(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
