package repositories

import (
	"context"

	"github.com/zatekoja/clothingsearch/internal/domain/entities"
)

// SearchAnalyticsRepository appends search events.
type SearchAnalyticsRepository interface {
	LogEvent(ctx context.Context, event *entities.SearchEvent) error
	GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error)
}
