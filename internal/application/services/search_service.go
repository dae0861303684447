package services

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"github.com/zatekoja/clothingsearch/internal/domain/entities"
	"github.com/zatekoja/clothingsearch/internal/domain/providers"
	"github.com/zatekoja/clothingsearch/internal/infrastructure/observability"
	"github.com/zatekoja/clothingsearch/pkg/config"
)

// Contained failure kinds. None of them fail a search; they are reported on
// entities.SearchReport.
var (
	ErrProviderFailure = errors.New("store provider failed")
	ErrProviderTimeout = errors.New("store provider timed out")
	ErrAggregateJoin   = errors.New("provider join did not complete before the search deadline")
	ErrCacheCorrupted  = errors.New("cached search result is corrupted")
)

// ProviderRegistry selects the providers serving a country.
type ProviderRegistry interface {
	Eligible(countryID int) []providers.StoreProvider
}

// UserResolver resolves the preference a search runs under.
type UserResolver interface {
	Resolve(ctx context.Context, userID string) (*entities.UserPreference, error)
}

// SearchCache is the result cache port of the coordinator.
type SearchCache interface {
	Get(ctx context.Context, query, category string, countryID int) (*CachedResult, bool, error)
	Put(ctx context.Context, query, category string, countryID int, products []entities.Product) error
}

// AnalyticsRecorder receives one event per fetched search.
type AnalyticsRecorder interface {
	TrackSearch(ctx context.Context, event *entities.SearchEvent)
}

// SearchService coordinates an aggregated search: resolve the user, consult
// the cache, fan out to eligible providers, merge, facet and persist.
type SearchService struct {
	users     UserResolver
	fan       *fanOut
	cache     SearchCache
	analytics AnalyticsRecorder
	metrics   *observability.Metrics
	coalesce  bool
	group     singleflight.Group
	now       func() time.Time
}

// NewSearchService creates a new search coordinator. metrics may be nil.
func NewSearchService(
	users UserResolver,
	registry ProviderRegistry,
	cache SearchCache,
	analytics AnalyticsRecorder,
	metrics *observability.Metrics,
	cfg config.SearchConfig,
) *SearchService {
	return &SearchService{
		users:     users,
		fan:       newFanOut(registry, metrics, cfg),
		cache:     cache,
		analytics: analytics,
		metrics:   metrics,
		coalesce:  cfg.Coalesce,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source used for LastUpdated and events.
func (s *SearchService) WithClock(now func() time.Time) *SearchService {
	s.now = now
	return s
}

// fetchResult is the shared outcome of one fan-out and persist step.
type fetchResult struct {
	products      []entities.Product
	outcomes      []entities.ProviderOutcome
	joinErr       error
	cacheWriteErr error
	fetchedAt     time.Time
}

// Search runs one aggregated search. Only a failure to resolve the user is
// returned as an error; every other failure is contained and reported on
// the result's Report.
func (s *SearchService) Search(ctx context.Context, query, userID, category string) (*entities.SearchResult, error) {
	ctx, span := observability.StartSpan(ctx, "SearchService.Search",
		attribute.String("search.query", query),
		attribute.String("search.category", category),
	)
	defer span.End()

	pref, err := s.users.Resolve(ctx, userID)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	sc := entities.SearchContext{Query: query, Category: category, CountryID: pref.CountryID, UserID: userID}
	span.SetAttributes(attribute.Int("search.country_id", sc.CountryID))
	report := &entities.SearchReport{CountryID: sc.CountryID}
	logger := observability.LoggerFromContext(ctx)

	cached, hit, cacheErr := s.cache.Get(ctx, sc.Query, sc.Category, sc.CountryID)
	if hit {
		s.metrics.RecordCacheHit(ctx, sc.CountryID)
		s.metrics.RecordSearch(ctx, sc.CountryID, true)
		report.CacheHit = true
		result := buildResult(sc, cached.Products, true, cached.Entry.CreatedAt)
		result.Report = report
		logger.Debug().Str("query", query).Int("results", result.TotalResults).Msg("Search served from cache")
		return result, nil
	}
	report.CacheReadErr = cacheErr
	s.metrics.RecordCacheMiss(ctx, sc.CountryID)

	fetched, shared := s.fetch(ctx, sc, pref)
	report.Providers = fetched.outcomes
	report.JoinErr = fetched.joinErr
	report.CacheWriteErr = fetched.cacheWriteErr
	report.Coalesced = shared

	if fetched.joinErr != nil {
		observability.RecordError(span, fetched.joinErr)
	}

	result := buildResult(sc, fetched.products, false, fetched.fetchedAt)
	result.Report = report

	s.analytics.TrackSearch(ctx, &entities.SearchEvent{
		Query:       sc.Query,
		Category:    sc.Category,
		UserID:      sc.UserID,
		ResultCount: result.TotalResults,
		Timestamp:   s.now(),
	})
	s.metrics.RecordSearch(ctx, sc.CountryID, false)

	logger.Info().
		Str("query", query).
		Int("country_id", sc.CountryID).
		Int("results", result.TotalResults).
		Strs("failed_providers", report.FailedProviders()).
		Bool("coalesced", shared).
		Msg("Search completed")
	return result, nil
}

// SearchFiltered runs Search and narrows the returned products with filters.
// The cache always holds the unfiltered merge.
func (s *SearchService) SearchFiltered(ctx context.Context, query, userID, category string, filters entities.SearchFilters) (*entities.SearchResult, error) {
	result, err := s.Search(ctx, query, userID, category)
	if err != nil || filters.IsZero() {
		return result, err
	}

	filtered := make([]entities.Product, 0, len(result.Products))
	for _, p := range result.Products {
		if filters.Match(p) {
			filtered = append(filtered, p)
		}
	}
	result.Products = filtered
	result.TotalResults = len(filtered)
	if category == "" {
		result.Categories = GenerateCategories(filtered)
	}
	return result, nil
}

// GetCategories runs an unfiltered search and returns its facets.
func (s *SearchService) GetCategories(ctx context.Context, query, userID string) ([]entities.CategoryFacet, error) {
	result, err := s.Search(ctx, query, userID, "")
	if err != nil {
		return nil, err
	}
	return result.Categories, nil
}

// fetch runs the fan-out and cache write, coalescing identical concurrent
// searches when enabled. shared reports whether the result was produced for
// another caller too.
func (s *SearchService) fetch(ctx context.Context, sc entities.SearchContext, pref *entities.UserPreference) (*fetchResult, bool) {
	if !s.coalesce {
		return s.fetchAndPersist(ctx, sc, pref), false
	}

	key := strconv.Itoa(sc.CountryID) + "\x00" + sc.Query + "\x00" + sc.Category
	// The leader's cancellation must not fail the followers.
	v, _, shared := s.group.Do(key, func() (any, error) {
		return s.fetchAndPersist(context.WithoutCancel(ctx), sc, pref), nil
	})
	res := v.(*fetchResult)
	if !shared {
		return res, false
	}

	cp := *res
	cp.products = slices.Clone(res.products)
	cp.outcomes = slices.Clone(res.outcomes)
	return &cp, true
}

func (s *SearchService) fetchAndPersist(ctx context.Context, sc entities.SearchContext, pref *entities.UserPreference) *fetchResult {
	outcomes, joinErr := s.fan.run(ctx, sc, pref)
	res := &fetchResult{
		products:  merge(outcomes),
		outcomes:  outcomes,
		joinErr:   joinErr,
		fetchedAt: s.now(),
	}
	logger := observability.LoggerFromContext(ctx)

	if joinErr != nil {
		// An incomplete merge must not be served from cache for the next TTL.
		logger.Error().Err(joinErr).Str("query", sc.Query).Int("country_id", sc.CountryID).Msg("Provider join failed, returning partial results")
		return res
	}

	if err := s.cache.Put(ctx, sc.Query, sc.Category, sc.CountryID, res.products); err != nil {
		res.cacheWriteErr = err
		logger.Warn().Err(err).Str("query", sc.Query).Msg("Failed to cache search results")
	}
	return res
}

// merge concatenates successful outcomes in order. Duplicates across
// providers are kept.
func merge(outcomes []entities.ProviderOutcome) []entities.Product {
	merged := make([]entities.Product, 0)
	for _, o := range outcomes {
		if o.OK() {
			merged = append(merged, o.Products...)
		}
	}
	return merged
}

func buildResult(sc entities.SearchContext, products []entities.Product, fromCache bool, lastUpdated time.Time) *entities.SearchResult {
	categories := []entities.CategoryFacet{}
	if sc.Category == "" {
		categories = GenerateCategories(products)
	}
	return &entities.SearchResult{
		Query:            sc.Query,
		Products:         products,
		TotalResults:     len(products),
		Categories:       categories,
		IsFromCache:      fromCache,
		SelectedCategory: sc.Category,
		LastUpdated:      lastUpdated,
	}
}
