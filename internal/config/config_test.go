package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wager-program-backend/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "localhost:6379", cfg.RedisURL)
	assert.Equal(t, 10, cfg.MaxRemainingAccounts)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ENV", "production")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("MAX_REMAINING_ACCOUNTS", "4")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 4, cfg.MaxRemainingAccounts)
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoadRejectsNegativeAccounts(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("MAX_REMAINING_ACCOUNTS", "-1")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoadRejectsSubSecondSessionTTL(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	for _, ttl := range []string{"500ms", "0s", "-1h"} {
		t.Setenv("SESSION_TTL", ttl)
		_, err := config.Load()
		assert.Error(t, err, ttl)
	}

	t.Setenv("SESSION_TTL", "1s")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.SessionTTL)
}
