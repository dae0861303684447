package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "clothing_search", cfg.Database.Database)
	assert.Equal(t, 6*time.Hour, cfg.Search.CacheTTL)
	assert.Equal(t, 8*time.Second, cfg.Search.ProviderTimeout)
	assert.Equal(t, 15*time.Second, cfg.Search.Deadline)
	assert.Equal(t, 10, cfg.Search.MaxConcurrentProviders)
	assert.True(t, cfg.Search.Coalesce)
	assert.Equal(t, "Croatia", cfg.Search.DefaultCountry)
	assert.Equal(t, 0.5, cfg.Breaker.FailureRatio)
	assert.Equal(t, uint32(5), cfg.Breaker.MinRequests)
}

func TestLoad_SearchOverrides(t *testing.T) {
	t.Setenv("SEARCH_CACHE_TTL", "30m")
	t.Setenv("SEARCH_PROVIDER_TIMEOUT", "2s")
	t.Setenv("SEARCH_DEADLINE", "5s")
	t.Setenv("SEARCH_COALESCE", "false")
	t.Setenv("SEARCH_DEFAULT_COUNTRY", "Germany")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.Search.CacheTTL)
	assert.Equal(t, 2*time.Second, cfg.Search.ProviderTimeout)
	assert.Equal(t, 5*time.Second, cfg.Search.Deadline)
	assert.False(t, cfg.Search.Coalesce)
	assert.Equal(t, "Germany", cfg.Search.DefaultCountry)
}

func TestLoad_InvalidDurationFallsBackToDefault(t *testing.T) {
	t.Setenv("SEARCH_CACHE_TTL", "six hours")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 6*time.Hour, cfg.Search.CacheTTL)
}

func TestLoad_DeadlineShorterThanProviderTimeout(t *testing.T) {
	t.Setenv("SEARCH_PROVIDER_TIMEOUT", "10s")
	t.Setenv("SEARCH_DEADLINE", "1s")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_AllowedOrigins(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://shop.example.com,https://admin.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.Server.AllowedOrigins)
}

func TestDatabaseDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", Database: "d", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=d sslmode=disable", c.DatabaseDSN())
}
