package services

import (
	"context"
	"sync"
	"time"

	"github.com/zatekoja/clothingsearch/internal/domain/entities"
	"github.com/zatekoja/clothingsearch/internal/domain/repositories"
	"github.com/zatekoja/clothingsearch/internal/infrastructure/observability"
)

type SearchAnalyticsService struct {
	repo    repositories.SearchAnalyticsRepository
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewSearchAnalyticsService(repo repositories.SearchAnalyticsRepository, timeout time.Duration) *SearchAnalyticsService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &SearchAnalyticsService{repo: repo, timeout: timeout}
}

// TrackSearch records the event in the background. Failures are logged and
// never reach the caller.
func (s *SearchAnalyticsService) TrackSearch(ctx context.Context, event *entities.SearchEvent) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		// The request context is usually done by the time this runs.
		bgCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		if err := s.Record(bgCtx, event); err != nil {
			observability.LoggerFromContext(bgCtx).Warn().Err(err).Str("query", event.Query).Msg("Failed to log search event")
		}
	}()
}

// Record writes the event synchronously.
func (s *SearchAnalyticsService) Record(ctx context.Context, event *entities.SearchEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	return s.repo.LogEvent(ctx, event)
}

// Wait blocks until every tracked event has been written or abandoned.
func (s *SearchAnalyticsService) Wait() {
	s.wg.Wait()
}

func (s *SearchAnalyticsService) GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	return s.repo.GetZeroResultQueries(ctx, limit)
}
