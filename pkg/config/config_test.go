package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, cfg.Scheduler.DefaultDays)
	assert.Equal(t, 10*time.Minute, cfg.Scheduler.CacheTTL)
	assert.False(t, cfg.Redis.Enabled)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("SCHEDULER_DEFAULT_DAYS", "1, 2,3,4,5")
	t.Setenv("TIMETABLE_CACHE_TTL", "90s")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("REDIS_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3, 4, 5}, cfg.Scheduler.DefaultDays)
	assert.Equal(t, 90*time.Second, cfg.Scheduler.CacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Redis.Enabled)
}

func TestParseDaysFallsBackOnGarbage(t *testing.T) {
	fallback := []int{1, 2}
	assert.Equal(t, fallback, parseDays("", fallback))
	assert.Equal(t, fallback, parseDays("1,x", fallback))
	assert.Equal(t, fallback, parseDays("0,8", fallback))
	assert.Equal(t, []int{6, 7}, parseDays("6,7", fallback))
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	cases := map[string]map[string]string{
		"port":              {"PORT": "70000"},
		"prefix":            {"API_PREFIX": "api"},
		"production secret": {"ENV": EnvProduction},
		"negative ttl":      {"TIMETABLE_CACHE_TTL": "-1m"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			chdirTemp(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadProductionWithSecret(t *testing.T) {
	chdirTemp(t)
	t.Setenv("ENV", EnvProduction)
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("JWT_ISSUER", "sma-identity")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sma-identity", cfg.JWT.Issuer)
	assert.Equal(t, 30*time.Second, cfg.JWT.Leeway)
}
