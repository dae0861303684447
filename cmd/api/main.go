package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/clothingsearch/internal/adapters/cache"
	"github.com/zatekoja/clothingsearch/internal/adapters/database"
	"github.com/zatekoja/clothingsearch/internal/adapters/providers/stores"
	"github.com/zatekoja/clothingsearch/internal/api/handlers"
	"github.com/zatekoja/clothingsearch/internal/api/middleware"
	"github.com/zatekoja/clothingsearch/internal/api/routes"
	"github.com/zatekoja/clothingsearch/internal/application/services"
	"github.com/zatekoja/clothingsearch/internal/domain/providers"
	"github.com/zatekoja/clothingsearch/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/clothingsearch/internal/infrastructure/clients/redis"
	"github.com/zatekoja/clothingsearch/internal/infrastructure/observability"
	"github.com/zatekoja/clothingsearch/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	if cfg.Database.Migrate {
		if err := pgClient.Migrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply database migrations")
		}
	}

	// Redis is optional; without it the search cache reads Postgres directly.
	var (
		cacheProvider providers.CacheProvider
		redisPinger   handlers.Pinger
	)
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, continuing without L1 cache")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient)
			redisPinger = redisClient
			log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Redis client initialized")
		}
	}

	// Adapters
	countryRepo := database.NewCountryAdapter(pgClient)
	storeRepo := database.NewStoreAdapter(pgClient)
	prefRepo := database.NewUserPreferenceAdapter(pgClient)
	analyticsRepo := database.NewSearchAnalyticsAdapter(pgClient)
	searchCacheRepo := database.NewSearchCacheAdapter(pgClient)
	if cacheProvider != nil {
		searchCacheRepo = database.NewCachedSearchCacheAdapter(searchCacheRepo, cacheProvider)
	}

	registry := stores.NewDefaultRegistry(cfg.Search, cfg.Breaker)
	for _, p := range registry.All() {
		log.Info().Str("store", p.Name()).Str("type", p.ProviderType()).Msg("Registered store provider")
	}

	// Services
	userService := services.NewUserPreferenceService(prefRepo, countryRepo, cfg.Search.DefaultCountry)
	searchCache := services.NewSearchCacheService(searchCacheRepo, storeRepo, cfg.Search.CacheTTL)
	analyticsService := services.NewSearchAnalyticsService(analyticsRepo, cfg.Search.AnalyticsTimeout)
	searchService := services.NewSearchService(userService, registry, searchCache, analyticsService, metrics, cfg.Search)
	productService := services.NewProductService(registry, metrics, cfg.Search)

	housekeeping := services.NewCacheHousekeepingService(searchCache)
	housekeepingCtx, stopHousekeeping := context.WithCancel(ctx)
	defer stopHousekeeping()
	housekeeping.StartPeriodicPurge(housekeepingCtx, cfg.Search.HousekeepingInterval)

	// Handlers
	deps := map[string]handlers.Pinger{"postgres": pgClient}
	if redisPinger != nil {
		deps["redis"] = redisPinger
	}

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider, nil)
	}

	router := routes.NewRouter(
		handlers.NewSearchHandler(searchService),
		handlers.NewProductHandler(productService),
		handlers.NewUserHandler(userService),
		handlers.NewAnalyticsHandler(analyticsService),
		handlers.NewHealthHandler(deps),
		cacheMiddleware,
		cfg.Server.AllowedOrigins,
		metrics,
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:    serverAddr,
		Handler: router.SetupRoutes(),
		// Searches may legitimately run up to the fan-out deadline.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Search.Deadline + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	stopHousekeeping()
	<-housekeeping.Done()

	// Pending analytics writes each carry their own timeout.
	analyticsService.Wait()

	log.Info().Msg("Server stopped")
}
