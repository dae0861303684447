package database

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/zatekoja/clothingsearch/internal/domain/entities"
	"github.com/zatekoja/clothingsearch/internal/domain/repositories"
	"github.com/zatekoja/clothingsearch/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/clothingsearch/pkg/errors"
)

const defaultZeroResultLimit = 100

type SearchAnalyticsAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

func NewSearchAnalyticsAdapter(client *postgres.Client) repositories.SearchAnalyticsRepository {
	return &SearchAnalyticsAdapter{
		client: client,
		db:     newDialect(client.DB()),
	}
}

func (a *SearchAnalyticsAdapter) LogEvent(ctx context.Context, event *entities.SearchEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	query, args, err := a.db.Insert("search_analytics").
		Rows(goqu.Record{
			"id":           event.ID,
			"query":        event.Query,
			"category":     event.Category,
			"user_id":      event.UserID,
			"result_count": event.ResultCount,
			"timestamp":    event.Timestamp,
		}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to log search event", err)
	}
	return nil
}

func (a *SearchAnalyticsAdapter) GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	if limit <= 0 {
		limit = defaultZeroResultLimit
	}

	query, args, err := a.db.From("search_analytics").
		Select("id", "query", "category", "user_id", "result_count", "timestamp").
		Where(goqu.Ex{"result_count": 0}).
		Order(goqu.C("timestamp").Desc()).
		Limit(uint(limit)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get zero result queries", err)
	}
	defer rows.Close()

	events := make([]*entities.SearchEvent, 0)
	for rows.Next() {
		e := &entities.SearchEvent{}
		if err := rows.Scan(&e.ID, &e.Query, &e.Category, &e.UserID, &e.ResultCount, &e.Timestamp); err != nil {
			return nil, apperrors.NewInternalError("failed to scan search event", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate search events", err)
	}
	return events, nil
}
