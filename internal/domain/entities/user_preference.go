package entities

import (
	"time"
)

// Default sizing for a lazily created preference.
const (
	DefaultClothingSize   = "M"
	DefaultShoeSize       = "42"
	DefaultShoeSizeSystem = "EU"
)

// UserPreference is the per-user search context: market and sizing.
type UserPreference struct {
	UserID         string    `json:"userId" db:"user_id"`
	CountryID      int       `json:"countryId" db:"country_id"`
	CountryName    string    `json:"countryName" db:"-"`
	ClothingSize   string    `json:"clothingSize" db:"clothing_size"`
	ShoeSize       string    `json:"shoeSize" db:"shoe_size"`
	ShoeSizeSystem string    `json:"shoeSizeSystem" db:"shoe_size_system"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// NewDefaultUserPreference returns the preference created on first use.
func NewDefaultUserPreference(userID string, country *Country) *UserPreference {
	return &UserPreference{
		UserID:         userID,
		CountryID:      country.ID,
		CountryName:    country.Name,
		ClothingSize:   DefaultClothingSize,
		ShoeSize:       DefaultShoeSize,
		ShoeSizeSystem: DefaultShoeSizeSystem,
	}
}

// UpdateUserPreference is the payload for creating or updating a preference.
type UpdateUserPreference struct {
	CountryID      int    `json:"countryId" validate:"required,gt=0"`
	ClothingSize   string `json:"clothingSize" validate:"max=10"`
	ShoeSize       string `json:"shoeSize" validate:"max=10"`
	ShoeSizeSystem string `json:"shoeSizeSystem" validate:"max=5"`
}
