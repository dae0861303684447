package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	OTEL     OTELConfig
	Search   SearchConfig
	Breaker  BreakerConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string
	Port           int
	Env            string
	AllowedOrigins []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	Migrate  bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// SearchConfig holds the aggregation engine settings
type SearchConfig struct {
	// CacheTTL is how long a cached result set stays valid.
	CacheTTL time.Duration
	// ProviderTimeout bounds a single provider fetch.
	ProviderTimeout time.Duration
	// Deadline bounds the whole fan-out, including the join.
	Deadline               time.Duration
	MaxConcurrentProviders int
	// Coalesce merges concurrent identical searches into one fetch.
	Coalesce             bool
	DefaultCountry       string
	ProviderLatency      time.Duration
	AnalyticsTimeout     time.Duration
	HousekeepingInterval time.Duration
}

// BreakerConfig holds the per-provider circuit breaker settings
type BreakerConfig struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
	MinRequests  uint32
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Env:            getEnv("ENV", "production"),
			AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "clothing_search"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Migrate:  getEnvAsBool("DB_MIGRATE", true),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "clothing-search"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Search: SearchConfig{
			CacheTTL:               getEnvAsDuration("SEARCH_CACHE_TTL", 6*time.Hour),
			ProviderTimeout:        getEnvAsDuration("SEARCH_PROVIDER_TIMEOUT", 8*time.Second),
			Deadline:               getEnvAsDuration("SEARCH_DEADLINE", 15*time.Second),
			MaxConcurrentProviders: getEnvAsInt("SEARCH_MAX_CONCURRENT_PROVIDERS", 10),
			Coalesce:               getEnvAsBool("SEARCH_COALESCE", true),
			DefaultCountry:         getEnv("SEARCH_DEFAULT_COUNTRY", "Croatia"),
			ProviderLatency:        getEnvAsDuration("SEARCH_PROVIDER_LATENCY", 0),
			AnalyticsTimeout:       getEnvAsDuration("SEARCH_ANALYTICS_TIMEOUT", 5*time.Second),
			HousekeepingInterval:   getEnvAsDuration("SEARCH_HOUSEKEEPING_INTERVAL", time.Hour),
		},
		Breaker: BreakerConfig{
			MaxRequests:  uint32(getEnvAsInt("BREAKER_MAX_REQUESTS", 1)),
			Interval:     getEnvAsDuration("BREAKER_INTERVAL", 60*time.Second),
			Timeout:      getEnvAsDuration("BREAKER_TIMEOUT", 30*time.Second),
			FailureRatio: getEnvAsFloat("BREAKER_FAILURE_RATIO", 0.5),
			MinRequests:  uint32(getEnvAsInt("BREAKER_MIN_REQUESTS", 5)),
		},
	}

	if err := cfg.Search.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *SearchConfig) validate() error {
	if c.CacheTTL <= 0 {
		return fmt.Errorf("SEARCH_CACHE_TTL must be positive, got %s", c.CacheTTL)
	}
	if c.ProviderTimeout <= 0 {
		return fmt.Errorf("SEARCH_PROVIDER_TIMEOUT must be positive, got %s", c.ProviderTimeout)
	}
	if c.Deadline < c.ProviderTimeout {
		return fmt.Errorf("SEARCH_DEADLINE (%s) must not be shorter than SEARCH_PROVIDER_TIMEOUT (%s)", c.Deadline, c.ProviderTimeout)
	}
	if c.MaxConcurrentProviders <= 0 {
		return fmt.Errorf("SEARCH_MAX_CONCURRENT_PROVIDERS must be positive, got %d", c.MaxConcurrentProviders)
	}
	return nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
