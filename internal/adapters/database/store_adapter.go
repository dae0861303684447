package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/clothingsearch/internal/domain/entities"
	"github.com/zatekoja/clothingsearch/internal/domain/repositories"
	"github.com/zatekoja/clothingsearch/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/clothingsearch/pkg/errors"
)

// StoreAdapter implements StoreRepository
type StoreAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewStoreAdapter creates a new store adapter
func NewStoreAdapter(client *postgres.Client) repositories.StoreRepository {
	return &StoreAdapter{
		client: client,
		db:     newDialect(client.DB()),
	}
}

func (a *StoreAdapter) selectStores() *goqu.SelectDataset {
	return a.db.From("stores").
		Select("id", "name", "country_id", "provider_type", "config", "is_active", "created_at").
		Order(goqu.C("id").Asc()).
		Prepared(true)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStore(row rowScanner) (*entities.Store, error) {
	store := &entities.Store{}
	var cfg []byte
	if err := row.Scan(
		&store.ID, &store.Name, &store.CountryID, &store.ProviderType,
		&cfg, &store.IsActive, &store.CreatedAt,
	); err != nil {
		return nil, err
	}
	if len(cfg) > 0 {
		store.Config = json.RawMessage(cfg)
	}
	return store, nil
}

// FirstByCountry retrieves the lowest-id store of a country
func (a *StoreAdapter) FirstByCountry(ctx context.Context, countryID int) (*entities.Store, error) {
	query, args, err := a.selectStores().
		Where(goqu.Ex{"country_id": countryID}).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	store, err := scanStore(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no store for country %d", countryID))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get store", err)
	}
	return store, nil
}

// ListActiveByCountry lists the active stores of a country
func (a *StoreAdapter) ListActiveByCountry(ctx context.Context, countryID int) ([]*entities.Store, error) {
	query, args, err := a.selectStores().
		Where(goqu.Ex{"country_id": countryID, "is_active": true}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list stores", err)
	}
	defer rows.Close()

	stores := make([]*entities.Store, 0)
	for rows.Next() {
		store, err := scanStore(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan store", err)
		}
		stores = append(stores, store)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate stores", err)
	}
	return stores, nil
}
