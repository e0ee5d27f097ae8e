package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8080"`
	Env  string `env:"APP_ENV" envDefault:"development"`

	// Store selects the session backend: "redis" or "memory".
	Store string `env:"STORE" envDefault:"redis"`

	RedisURL  string `env:"REDIS_URL" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	JWTSecret string        `env:"JWT_SECRET,required,notEmpty"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`

	// MaxRemainingAccounts caps the player accounts a single earnings
	// computation may reference.
	MaxRemainingAccounts int `env:"MAX_REMAINING_ACCOUNTS" envDefault:"10"`

	RateLimitKills  int           `env:"RATE_LIMIT_KILLS" envDefault:"120"`
	RateLimitSpawns int           `env:"RATE_LIMIT_SPAWNS" envDefault:"30"`
	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"168h"`

	// SeedFile is a JSON array of sessions written to the store at startup.
	SeedFile string `env:"SEED_FILE"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.MaxRemainingAccounts < 0 {
		return nil, fmt.Errorf("MAX_REMAINING_ACCOUNTS must not be negative, got %d", cfg.MaxRemainingAccounts)
	}
	if cfg.SessionTTL < time.Second {
		return nil, fmt.Errorf("SESSION_TTL must be at least 1s, got %s", cfg.SessionTTL)
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
