package redis

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnv(t *testing.T) {
	env := map[string]string{
		"REDIS_URL":       "redis://cache:6380/2",
		"REDIS_POOL_SIZE": "4",
		"REDIS_GAME_TTL":  "72h",
	}
	cfg, err := ConfigFromEnv(func(k string) string { return env[k] })
	require.NoError(t, err)

	assert.Equal(t, "redis://cache:6380/2", cfg.URL)
	assert.Equal(t, 4, cfg.PoolSize)
	assert.Equal(t, 72*time.Hour, cfg.GameTTL)
	assert.Equal(t, DefaultConfig().LobbyTTL, cfg.LobbyTTL)
}

func TestConfigFromEnvRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		msg  string
	}{
		{"url", map[string]string{"REDIS_URL": "mysql://db"}, "invalid redis URL"},
		{"pool", map[string]string{"REDIS_POOL_SIZE": "many"}, "invalid REDIS_POOL_SIZE"},
		{"zero pool", map[string]string{"REDIS_POOL_SIZE": "0"}, "pool size must be positive"},
		{"ttl", map[string]string{"REDIS_LOBBY_TTL": "tomorrow"}, "invalid REDIS_LOBBY_TTL"},
		{"negative ttl", map[string]string{"REDIS_GAME_TTL": "-1h"}, "TTLs must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ConfigFromEnv(func(k string) string { return tt.env[k] })
			assert.ErrorContains(t, err, tt.msg)
		})
	}
}

func TestNewConnectsWithConfig(t *testing.T) {
	mini := miniredis.RunT(t)

	cfg := DefaultConfig()
	cfg.URL = "redis://" + mini.Addr()
	store, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	addr := mini.Addr()
	mini.Close()
	cfg.URL = "redis://" + addr
	_, err = New(cfg)
	assert.ErrorContains(t, err, "redis ping")
}
