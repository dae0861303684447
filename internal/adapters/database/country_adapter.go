package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/clothingsearch/internal/domain/entities"
	"github.com/zatekoja/clothingsearch/internal/domain/repositories"
	"github.com/zatekoja/clothingsearch/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/clothingsearch/pkg/errors"
)

// CountryAdapter implements CountryRepository
type CountryAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewCountryAdapter creates a new country adapter
func NewCountryAdapter(client *postgres.Client) repositories.CountryRepository {
	return &CountryAdapter{
		client: client,
		db:     newDialect(client.DB()),
	}
}

func (a *CountryAdapter) selectCountries() *goqu.SelectDataset {
	return a.db.From("countries").
		Select("id", "name", "currency", "created_at").
		Prepared(true)
}

// GetByID retrieves a country by ID
func (a *CountryAdapter) GetByID(ctx context.Context, id int) (*entities.Country, error) {
	return a.getOne(ctx, a.selectCountries().Where(goqu.Ex{"id": id}), "country not found")
}

// GetByName retrieves a country by its exact name
func (a *CountryAdapter) GetByName(ctx context.Context, name string) (*entities.Country, error) {
	return a.getOne(ctx, a.selectCountries().Where(goqu.Ex{"name": name}), "country not found: "+name)
}

// First retrieves the country with the lowest ID
func (a *CountryAdapter) First(ctx context.Context) (*entities.Country, error) {
	return a.getOne(ctx, a.selectCountries().Order(goqu.C("id").Asc()).Limit(1), "no countries configured")
}

func (a *CountryAdapter) getOne(ctx context.Context, ds *goqu.SelectDataset, notFound string) (*entities.Country, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	country := &entities.Country{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&country.ID, &country.Name, &country.Currency, &country.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(notFound)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get country", err)
	}
	return country, nil
}

// List returns all countries ordered by name
func (a *CountryAdapter) List(ctx context.Context) ([]*entities.Country, error) {
	query, args, err := a.selectCountries().Order(goqu.C("name").Asc()).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list countries", err)
	}
	defer rows.Close()

	countries := make([]*entities.Country, 0)
	for rows.Next() {
		c := &entities.Country{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Currency, &c.CreatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan country", err)
		}
		countries = append(countries, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate countries", err)
	}
	return countries, nil
}
