package repositories

import (
	"context"
	"time"

	"github.com/zatekoja/clothingsearch/internal/domain/entities"
)

// SearchCacheKey identifies a cached result set. Matching is exact.
type SearchCacheKey struct {
	Query     string
	Category  string
	CountryID int
}

// SearchCacheRepository stores result sets keyed by SearchCacheKey.
type SearchCacheRepository interface {
	// FindValid returns the newest entry for key with ExpiresAt after now,
	// or a NOT_FOUND AppError.
	FindValid(ctx context.Context, key SearchCacheKey, now time.Time) (*entities.SearchCacheEntry, error)

	// Create appends an entry and sets its ID.
	Create(ctx context.Context, entry *entities.SearchCacheEntry) error

	// Delete removes one entry.
	Delete(ctx context.Context, entry *entities.SearchCacheEntry) error

	// DeleteExpired removes entries whose ExpiresAt is at or before now and
	// returns how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
