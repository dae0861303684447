package repositories

import (
	"context"

	"github.com/zatekoja/clothingsearch/internal/domain/entities"
)

// StoreRepository reads the store lookup table.
type StoreRepository interface {
	// FirstByCountry returns the lowest-id store of the country, or a
	// NOT_FOUND AppError when the country has none.
	FirstByCountry(ctx context.Context, countryID int) (*entities.Store, error)

	// ListActiveByCountry returns active stores of the country ordered by id.
	ListActiveByCountry(ctx context.Context, countryID int) ([]*entities.Store, error)
}
