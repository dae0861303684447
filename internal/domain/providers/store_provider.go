package providers

import (
	"context"

	"github.com/zatekoja/clothingsearch/internal/domain/entities"
)

// StoreProvider is the pluggable contract every retail backend implements.
// SupportsCountry and ProviderType must be pure; Search may block and fail.
type StoreProvider interface {
	// ProviderType returns the backend family tag, e.g. "scraping".
	ProviderType() string

	// Name returns the store display name, e.g. "Hervis".
	Name() string

	// SupportsCountry reports whether the provider serves countryID.
	SupportsCountry(countryID int) bool

	// Search returns the provider's listings for query. category narrows the
	// search at the provider when non-empty.
	Search(ctx context.Context, query string, pref *entities.UserPreference, category string) ([]entities.Product, error)
}
