package entities

import (
	"time"
)

// SearchCacheEntry is one persisted result set. Entries are append-only and
// expire at ExpiresAt; they are never updated in place.
type SearchCacheEntry struct {
	ID        int64     `json:"id" db:"id"`
	Query     string    `json:"query" db:"search_query"`
	Category  string    `json:"category" db:"category"`
	StoreID   int       `json:"storeId" db:"store_id"`
	CountryID int       `json:"countryId" db:"country_id"`
	Results   []byte    `json:"results" db:"results"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
}

// IsValidAt reports whether the entry may be served at now.
func (e *SearchCacheEntry) IsValidAt(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}
