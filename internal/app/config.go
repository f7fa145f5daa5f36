package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Constants
const (
	// Error messages
	ErrInvalidFormat  = "Invalid format"
	ErrInvalidBody    = "Invalid request body"
	ErrInternalServer = "Internal server error"
	ErrMethodNotAllow = "Method not allowed"
)

// Config is the runtime configuration, read from the environment.
// SBAZV_FEED_URL may be empty: the service then serves cached or
// generated schedules only, which is an expected state.
type Config struct {
	Port         int           `env:"PORT" envDefault:"8080"`
	FeedURL      string        `env:"SBAZV_FEED_URL"`
	CacheTTL     time.Duration `env:"FEED_CACHE_TTL" envDefault:"12h"`
	FetchTimeout time.Duration `env:"FEED_FETCH_TIMEOUT" envDefault:"15s"`
	LogLevel     string        `env:"LOG_LEVEL" envDefault:"info"`
	AuthFile     string        `env:"AUTH_FILE"`
}

// LoadConfig parses the configuration from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
