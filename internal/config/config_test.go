package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IliaRaxat/RaxatJob-sub002/internal/workflow"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ALLOW_ORIGIN", "RATE_LIMIT_REQUESTS_PER_SECOND", "REDIS_ADDR",
		"BULK_CONCURRENCY", "INTERNSHIP_VISIBILITY", "LOG_MODE", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, uint(5), cfg.RateLimitPerSecond)
	assert.Equal(t, 4, cfg.BulkConcurrency)
	assert.Equal(t, workflow.InternshipStatusOnly, cfg.Visibility.Internship)
	assert.Equal(t, []string{DefaultAllowOrigin}, cfg.AllowOrigins)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("ALLOW_ORIGIN", "http://localhost:3000, https://jobs.example.com")
	t.Setenv("RATE_LIMIT_REQUESTS_PER_SECOND", "20")
	t.Setenv("BULK_CONCURRENCY", "8")
	t.Setenv("INTERNSHIP_VISIBILITY", "moderated")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, []string{"http://localhost:3000", "https://jobs.example.com"}, cfg.AllowOrigins)
	assert.Equal(t, uint(20), cfg.RateLimitPerSecond)
	assert.Equal(t, 8, cfg.BulkConcurrency)
	assert.Equal(t, workflow.InternshipModerated, cfg.Visibility.Internship)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("INTERNSHIP_VISIBILITY", "sometimes")
	_, err := Load()
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("PORT", "http")
	_, err = Load()
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("RATE_LIMIT_REQUESTS_PER_SECOND", "-1")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, uint(5), cfg.RateLimitPerSecond)
}
