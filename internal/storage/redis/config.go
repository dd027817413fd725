package redis

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection and retention settings
type Config struct {
	// URL is a redis:// or rediss:// connection URL
	URL string

	PoolSize     int
	MinIdleConns int

	// Retention per entity. Registered players never expire
	GuestPlayerTTL time.Duration
	LobbyTTL       time.Duration
	// GameTTL also bounds how long a lobby's game history is kept
	GameTTL time.Duration
}

// DefaultConfig returns the defaults for a local Redis
func DefaultConfig() Config {
	return Config{
		URL:            "redis://localhost:6379",
		PoolSize:       10,
		MinIdleConns:   2,
		GuestPlayerTTL: 24 * time.Hour,
		LobbyTTL:       24 * time.Hour,
		GameTTL:        30 * 24 * time.Hour,
	}
}

// ConfigFromEnv applies REDIS_URL, REDIS_POOL_SIZE, REDIS_LOBBY_TTL and
// REDIS_GAME_TTL over the defaults and validates the result
func ConfigFromEnv(getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()

	if v := getenv("REDIS_URL"); v != "" {
		cfg.URL = v
	}
	if v := getenv("REDIS_POOL_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid REDIS_POOL_SIZE %q", v)
		}
		cfg.PoolSize = n
	}

	for key, dst := range map[string]*time.Duration{
		"REDIS_LOBBY_TTL": &cfg.LobbyTTL,
		"REDIS_GAME_TTL":  &cfg.GameTTL,
	} {
		if v := getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return cfg, fmt.Errorf("invalid %s %q", key, v)
			}
			*dst = d
		}
	}

	return cfg, cfg.Validate()
}

// Validate checks the URL parses and every limit is positive
func (c Config) Validate() error {
	if _, err := redis.ParseURL(c.URL); err != nil {
		return fmt.Errorf("invalid redis URL: %w", err)
	}
	if c.PoolSize <= 0 {
		return errors.New("redis pool size must be positive")
	}
	if c.GuestPlayerTTL <= 0 || c.LobbyTTL <= 0 || c.GameTTL <= 0 {
		return errors.New("redis TTLs must be positive")
	}
	return nil
}
