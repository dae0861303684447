package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// ExpiredEntryPurger deletes cache entries that can no longer be served.
type ExpiredEntryPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// CacheHousekeepingService periodically removes expired search cache rows.
// Expired rows are never served, so this only bounds table growth.
type CacheHousekeepingService struct {
	purger ExpiredEntryPurger
	done   chan struct{}
}

// NewCacheHousekeepingService creates a new cache housekeeping service
func NewCacheHousekeepingService(purger ExpiredEntryPurger) *CacheHousekeepingService {
	return &CacheHousekeepingService{purger: purger, done: make(chan struct{})}
}

// RunOnce purges expired entries and returns how many were removed.
func (s *CacheHousekeepingService) RunOnce(ctx context.Context) (int64, error) {
	n, err := s.purger.PurgeExpired(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Search cache purge failed")
		return 0, err
	}
	if n > 0 {
		log.Info().Int64("purged", n).Msg("Purged expired search cache entries")
	}
	return n, nil
}

// StartPeriodicPurge purges once, then every interval until ctx is done.
// Done is closed when the loop exits.
func (s *CacheHousekeepingService) StartPeriodicPurge(ctx context.Context, interval time.Duration) {
	_, _ = s.RunOnce(ctx)

	ticker := time.NewTicker(interval)
	go func() {
		defer close(s.done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("Stopping search cache housekeeping")
				return
			case <-ticker.C:
				_, _ = s.RunOnce(ctx)
			}
		}
	}()
	log.Info().Dur("interval", interval).Msg("Started search cache housekeeping")
}

// Done is closed once the periodic loop has stopped.
func (s *CacheHousekeepingService) Done() <-chan struct{} {
	return s.done
}
