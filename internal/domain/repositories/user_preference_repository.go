package repositories

import (
	"context"

	"github.com/zatekoja/clothingsearch/internal/domain/entities"
)

// UserPreferenceRepository persists per-user search preferences.
type UserPreferenceRepository interface {
	// GetByUserID returns the preference, or a NOT_FOUND AppError.
	GetByUserID(ctx context.Context, userID string) (*entities.UserPreference, error)

	// Create inserts a new preference. A concurrent insert for the same user
	// yields a CONFLICT AppError.
	Create(ctx context.Context, pref *entities.UserPreference) error

	// Upsert creates or replaces the preference for pref.UserID.
	Upsert(ctx context.Context, pref *entities.UserPreference) error
}

// CountryRepository reads the country lookup table.
type CountryRepository interface {
	GetByID(ctx context.Context, id int) (*entities.Country, error)
	GetByName(ctx context.Context, name string) (*entities.Country, error)
	// First returns the country with the lowest id.
	First(ctx context.Context) (*entities.Country, error)
	// List returns all countries ordered by name.
	List(ctx context.Context) ([]*entities.Country, error)
}
