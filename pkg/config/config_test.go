package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "REDIS_HOST", "REDIS_CACHE_TTL", "OPENAI_API_KEY", "DB_NAME"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "health_tracker", cfg.Database.Database)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.Empty(t, cfg.AI.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.Model)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_CACHE_TTL", "30s")
	t.Setenv("OTEL_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "cache:6379", cfg.Redis.RedisAddr())
	assert.Equal(t, 30*time.Second, cfg.Redis.CacheTTL)
	assert.True(t, cfg.OTEL.Enabled)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("REDIS_PORT", "not-a-number")
	t.Setenv("REDIS_CACHE_TTL", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
}

func TestLoad_RejectsOutOfRangePort(t *testing.T) {
	t.Setenv("SERVER_PORT", "70000")

	_, err := Load()
	assert.Error(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "d", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=d sslmode=disable", cfg.DatabaseDSN())
}
