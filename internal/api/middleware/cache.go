package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/zatekoja/clothingsearch/internal/domain/providers"
	"github.com/zatekoja/clothingsearch/internal/infrastructure/observability"
)

// CacheConfig holds cache configuration for specific routes
type CacheConfig struct {
	TTL     time.Duration
	Enabled bool
}

// CacheMiddleware caches successful GET responses of slow-changing routes.
// Search responses are not cached here; the search service has its own
// result cache.
type CacheMiddleware struct {
	cache        providers.CacheProvider
	routeConfigs map[string]CacheConfig
}

// DefaultRouteCacheConfigs are the reference-data routes worth caching.
func DefaultRouteCacheConfigs() map[string]CacheConfig {
	return map[string]CacheConfig{
		"/api/user/countries":    {TTL: time.Hour, Enabled: true},
		"/api/products/stores":   {TTL: 10 * time.Minute, Enabled: true},
		"/api/search/categories": {Enabled: false},
	}
}

// NewCacheMiddleware creates a new cache middleware
func NewCacheMiddleware(cache providers.CacheProvider, configs map[string]CacheConfig) *CacheMiddleware {
	if configs == nil {
		configs = DefaultRouteCacheConfigs()
	}
	return &CacheMiddleware{cache: cache, routeConfigs: configs}
}

// Middleware returns the cache middleware handler
func (m *CacheMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || m.cache == nil {
			next.ServeHTTP(w, r)
			return
		}

		config := m.getRouteConfig(r.URL.Path)
		if !config.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		logger := observability.LoggerFromContext(r.Context())
		cacheKey := m.generateCacheKey(r)

		cached, err := m.cache.Get(r.Context(), cacheKey)
		if err == nil {
			w.Header().Set("X-Cache", "HIT")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(cached)
			return
		}
		if !errors.Is(err, providers.ErrCacheMiss) {
			logger.Warn().Err(err).Str("path", r.URL.Path).Msg("Response cache read failed")
		}

		w.Header().Set("X-Cache", "MISS")
		recorder := &responseRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			body:           &bytes.Buffer{},
		}
		next.ServeHTTP(recorder, r)

		if recorder.statusCode == http.StatusOK && recorder.body.Len() > 0 {
			if err := m.cache.Set(r.Context(), cacheKey, recorder.body.Bytes(), config.TTL); err != nil {
				logger.Warn().Err(err).Str("path", r.URL.Path).Msg("Failed to cache response")
			}
		}
	})
}

// getRouteConfig returns the config of the exact path, else of the longest
// matching prefix.
func (m *CacheMiddleware) getRouteConfig(path string) CacheConfig {
	if config, ok := m.routeConfigs[path]; ok {
		return config
	}

	best := ""
	for pattern := range m.routeConfigs {
		if strings.HasSuffix(pattern, "/") && strings.HasPrefix(path, pattern) && len(pattern) > len(best) {
			best = pattern
		}
	}
	if best == "" {
		return CacheConfig{}
	}
	return m.routeConfigs[best]
}

// generateCacheKey generates a cache key from the request
func (m *CacheMiddleware) generateCacheKey(r *http.Request) string {
	key := r.Method + ":" + r.URL.Path
	if r.URL.RawQuery != "" {
		key += "?" + r.URL.Query().Encode()
	}

	hash := sha256.Sum256([]byte(key))
	return "http:cache:" + hex.EncodeToString(hash[:])
}

// responseRecorder captures the response for caching
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
	written    bool
}

// WriteHeader captures the status code
func (r *responseRecorder) WriteHeader(statusCode int) {
	if !r.written {
		r.statusCode = statusCode
		r.ResponseWriter.WriteHeader(statusCode)
		r.written = true
	}
}

// Write captures the response body and writes to the client
func (r *responseRecorder) Write(data []byte) (int, error) {
	if !r.written {
		r.WriteHeader(http.StatusOK)
	}
	r.body.Write(data)
	return r.ResponseWriter.Write(data)
}
