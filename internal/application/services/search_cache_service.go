package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/zatekoja/clothingsearch/internal/domain/entities"
	"github.com/zatekoja/clothingsearch/internal/domain/repositories"
	"github.com/zatekoja/clothingsearch/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/clothingsearch/pkg/errors"
)

// CachedResult is a cache hit: the stored entry and its decoded products.
type CachedResult struct {
	Entry    *entities.SearchCacheEntry
	Products []entities.Product
}

// SearchCacheService is the time-boxed result cache keyed by
// (query, category, country). Entries are append-only and expire after TTL.
type SearchCacheService struct {
	cache  repositories.SearchCacheRepository
	stores repositories.StoreRepository
	ttl    time.Duration
	now    func() time.Time
}

// NewSearchCacheService creates a new search cache service.
func NewSearchCacheService(cache repositories.SearchCacheRepository, stores repositories.StoreRepository, ttl time.Duration) *SearchCacheService {
	return &SearchCacheService{
		cache:  cache,
		stores: stores,
		ttl:    ttl,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source.
func (s *SearchCacheService) WithClock(now func() time.Time) *SearchCacheService {
	s.now = now
	return s
}

// Get looks up a valid entry. ok is false on a miss. A non-nil err describes
// a contained failure (read error or corrupted entry) and always comes with
// ok == false; callers treat it as a miss.
func (s *SearchCacheService) Get(ctx context.Context, query, category string, countryID int) (*CachedResult, bool, error) {
	key := repositories.SearchCacheKey{Query: query, Category: category, CountryID: countryID}
	entry, err := s.cache.FindValid(ctx, key, s.now())
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil, false, nil
		}
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("query", query).Msg("Search cache read failed")
		return nil, false, fmt.Errorf("search cache read: %w", err)
	}

	var products []entities.Product
	if err := json.Unmarshal(entry.Results, &products); err != nil {
		logger := observability.LoggerFromContext(ctx)
		logger.Error().Err(err).Int64("entry_id", entry.ID).Str("query", query).Msg("Corrupted search cache entry, purging")
		if delErr := s.cache.Delete(ctx, entry); delErr != nil {
			logger.Warn().Err(delErr).Int64("entry_id", entry.ID).Msg("Failed to purge corrupted search cache entry")
		}
		return nil, false, errors.Join(ErrCacheCorrupted, err)
	}
	if products == nil {
		products = []entities.Product{}
	}
	return &CachedResult{Entry: entry, Products: products}, true, nil
}

// Put stores products under the key, anchored to the first store of the
// country. A country without stores is skipped without error.
func (s *SearchCacheService) Put(ctx context.Context, query, category string, countryID int, products []entities.Product) error {
	store, err := s.stores.FirstByCountry(ctx, countryID)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			observability.LoggerFromContext(ctx).Warn().Int("country_id", countryID).Msg("No store for country, skipping search cache write")
			return nil
		}
		return fmt.Errorf("search cache partition lookup: %w", err)
	}

	if products == nil {
		products = []entities.Product{}
	}
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("search cache encode: %w", err)
	}

	now := s.now()
	entry := &entities.SearchCacheEntry{
		Query:     query,
		Category:  category,
		StoreID:   store.ID,
		CountryID: countryID,
		Results:   data,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.cache.Create(ctx, entry); err != nil {
		return fmt.Errorf("search cache write: %w", err)
	}
	return nil
}

// PurgeExpired deletes entries that are no longer valid.
func (s *SearchCacheService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.cache.DeleteExpired(ctx, s.now())
}
