package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/clothingsearch/internal/domain/entities"
	"github.com/zatekoja/clothingsearch/internal/domain/repositories"
	"github.com/zatekoja/clothingsearch/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/clothingsearch/pkg/errors"
)

// SearchCacheAdapter implements SearchCacheRepository on the search_cache
// table. An entry's country is the country of the store it is filed under.
type SearchCacheAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewSearchCacheAdapter creates a new search cache adapter
func NewSearchCacheAdapter(client *postgres.Client) repositories.SearchCacheRepository {
	return &SearchCacheAdapter{
		client: client,
		db:     newDialect(client.DB()),
	}
}

// FindValid returns the newest unexpired entry for key
func (a *SearchCacheAdapter) FindValid(ctx context.Context, key repositories.SearchCacheKey, now time.Time) (*entities.SearchCacheEntry, error) {
	query, args, err := a.db.From(goqu.T("search_cache").As("c")).
		Join(goqu.T("stores").As("s"), goqu.On(goqu.I("s.id").Eq(goqu.I("c.store_id")))).
		Select(
			goqu.I("c.id"), goqu.I("c.search_query"), goqu.I("c.category"),
			goqu.I("c.store_id"), goqu.I("s.country_id"), goqu.I("c.results"),
			goqu.I("c.created_at"), goqu.I("c.expires_at"),
		).
		Where(
			goqu.I("c.search_query").Eq(key.Query),
			goqu.I("c.category").Eq(key.Category),
			goqu.I("s.country_id").Eq(key.CountryID),
			goqu.I("c.expires_at").Gt(now),
		).
		Order(goqu.I("c.created_at").Desc(), goqu.I("c.id").Desc()).
		Limit(1).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	entry := &entities.SearchCacheEntry{}
	var results string
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&entry.ID, &entry.Query, &entry.Category,
		&entry.StoreID, &entry.CountryID, &results,
		&entry.CreatedAt, &entry.ExpiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("search cache entry not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read search cache", err)
	}
	entry.Results = []byte(results)
	return entry, nil
}

// Create appends an entry and assigns its ID
func (a *SearchCacheAdapter) Create(ctx context.Context, entry *entities.SearchCacheEntry) error {
	query, args, err := a.db.Insert("search_cache").
		Rows(goqu.Record{
			"search_query": entry.Query,
			"category":     entry.Category,
			"store_id":     entry.StoreID,
			"results":      string(entry.Results),
			"created_at":   entry.CreatedAt,
			"expires_at":   entry.ExpiresAt,
		}).
		Returning("id").
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&entry.ID); err != nil {
		return apperrors.NewInternalError("failed to write search cache", err)
	}
	return nil
}

// Delete removes a single entry
func (a *SearchCacheAdapter) Delete(ctx context.Context, entry *entities.SearchCacheEntry) error {
	query, args, err := a.db.Delete("search_cache").
		Where(goqu.Ex{"id": entry.ID}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to delete search cache entry", err)
	}
	return nil
}

// DeleteExpired removes every entry expired at now
func (a *SearchCacheAdapter) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query, args, err := a.db.Delete("search_cache").
		Where(goqu.C("expires_at").Lte(now)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build delete query", err)
	}

	res, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to purge search cache", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to count purged entries", err)
	}
	return n, nil
}
