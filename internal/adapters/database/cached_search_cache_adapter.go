package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/clothingsearch/internal/domain/entities"
	"github.com/zatekoja/clothingsearch/internal/domain/providers"
	"github.com/zatekoja/clothingsearch/internal/domain/repositories"
)

// CachedSearchCacheAdapter puts a key/value cache in front of a
// SearchCacheRepository. The wrapped repository stays authoritative; cache
// errors degrade to a read of the repository.
type CachedSearchCacheAdapter struct {
	adapter repositories.SearchCacheRepository
	cache   providers.CacheProvider
}

// NewCachedSearchCacheAdapter creates a new cached search cache adapter
func NewCachedSearchCacheAdapter(adapter repositories.SearchCacheRepository, cache providers.CacheProvider) repositories.SearchCacheRepository {
	return &CachedSearchCacheAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

func searchCacheKey(key repositories.SearchCacheKey) string {
	return fmt.Sprintf("search:%d:%q:%q", key.CountryID, key.Query, key.Category)
}

// FindValid serves from the cache when it holds an unexpired entry, and
// otherwise reads through to the repository.
func (a *CachedSearchCacheAdapter) FindValid(ctx context.Context, key repositories.SearchCacheKey, now time.Time) (*entities.SearchCacheEntry, error) {
	cacheKey := searchCacheKey(key)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var entry entities.SearchCacheEntry
		if err := json.Unmarshal(cached, &entry); err == nil && entry.IsValidAt(now) {
			return &entry, nil
		}
	} else if !errors.Is(err, providers.ErrCacheMiss) {
		log.Ctx(ctx).Warn().Err(err).Str("key", cacheKey).Msg("search cache L1 read failed")
	}

	entry, err := a.adapter.FindValid(ctx, key, now)
	if err != nil {
		return nil, err
	}
	a.store(ctx, cacheKey, entry, now)
	return entry, nil
}

// Create writes through to the repository and then the cache.
func (a *CachedSearchCacheAdapter) Create(ctx context.Context, entry *entities.SearchCacheEntry) error {
	if err := a.adapter.Create(ctx, entry); err != nil {
		return err
	}
	a.store(ctx, searchCacheKey(keyOf(entry)), entry, entry.CreatedAt)
	return nil
}

// Delete removes the entry from both layers.
func (a *CachedSearchCacheAdapter) Delete(ctx context.Context, entry *entities.SearchCacheEntry) error {
	if err := a.cache.Delete(ctx, searchCacheKey(keyOf(entry))); err != nil {
		log.Ctx(ctx).Warn().Err(err).Int64("entry_id", entry.ID).Msg("search cache L1 delete failed")
	}
	return a.adapter.Delete(ctx, entry)
}

// DeleteExpired purges the repository; cached copies expire on their own.
func (a *CachedSearchCacheAdapter) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return a.adapter.DeleteExpired(ctx, now)
}

func (a *CachedSearchCacheAdapter) store(ctx context.Context, cacheKey string, entry *entities.SearchCacheEntry, now time.Time) {
	ttl := entry.ExpiresAt.Sub(now)
	if ttl <= 0 {
		return
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := a.cache.Set(ctx, cacheKey, data, ttl); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", cacheKey).Msg("search cache L1 write failed")
	}
}

func keyOf(entry *entities.SearchCacheEntry) repositories.SearchCacheKey {
	return repositories.SearchCacheKey{
		Query:     entry.Query,
		Category:  entry.Category,
		CountryID: entry.CountryID,
	}
}
