package entities

import (
	"encoding/json"
	"time"
)

// Country is a market the service searches in.
type Country struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Currency  string    `json:"currency" db:"currency"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Store is a retail source bound to one country. ProviderType names the
// provider family that can search it.
type Store struct {
	ID           int             `json:"id" db:"id"`
	Name         string          `json:"name" db:"name"`
	CountryID    int             `json:"countryId" db:"country_id"`
	ProviderType string          `json:"providerType" db:"provider_type"`
	Config       json.RawMessage `json:"config" db:"config"`
	IsActive     bool            `json:"isActive" db:"is_active"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
}
