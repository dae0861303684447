package entities

import (
	"time"
)

// SearchEvent represents a single search interaction for analytics.
type SearchEvent struct {
	ID          string    `json:"id" db:"id"`
	Query       string    `json:"query" db:"query"`
	Category    string    `json:"category" db:"category"`
	UserID      string    `json:"userId" db:"user_id"`
	ResultCount int       `json:"resultCount" db:"result_count"`
	Timestamp   time.Time `json:"timestamp" db:"timestamp"`
}
