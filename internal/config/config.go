// Package config loads service settings from the environment, with optional
// .env support for local runs.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"json"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	// CWA open-data forecast provider.
	CWAAPIKey    string        `envconfig:"CWA_API_KEY"`
	CWABaseURL   string        `envconfig:"CWA_BASE_URL" default:"https://opendata.cwa.gov.tw/api/v1/rest/datastore"`
	CWADataset   string        `envconfig:"CWA_DATASET" default:"F-C0032-001"`
	CWATimeout   time.Duration `envconfig:"CWA_TIMEOUT" default:"10s"`
	CWACacheSize int           `envconfig:"CWA_CACHE_SIZE" default:"16"`
	CWACacheTTL  time.Duration `envconfig:"CWA_CACHE_TTL" default:"5m"`

	// Startup position fallback when no device position is supplied.
	// Defaults to the Taipei 101 city block.
	DefaultLat float64 `envconfig:"DEFAULT_LAT" default:"25.0339"`
	DefaultLng float64 `envconfig:"DEFAULT_LNG" default:"121.5645"`

	// Optional state-event publishing for downstream analytics.
	KafkaEnabled bool     `envconfig:"KAFKA_ENABLED" default:"false"`
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	KafkaTopic   string   `envconfig:"KAFKA_TOPIC" default:"rainmap-state-events"`
}

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is loaded first if present.
func Load() (*Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.CWAAPIKey == "" {
		return errors.New("CWA_API_KEY is required")
	}
	if c.CWATimeout <= 0 {
		return errors.New("CWA_TIMEOUT must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	if c.CWACacheSize < 0 {
		return errors.New("CWA_CACHE_SIZE must not be negative")
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if c.KafkaEnabled && c.KafkaTopic == "" {
		return errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is empty")
	}
	return nil
}
