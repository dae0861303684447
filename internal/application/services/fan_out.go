package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/semaphore"

	"github.com/zatekoja/clothingsearch/internal/domain/entities"
	"github.com/zatekoja/clothingsearch/internal/domain/providers"
	"github.com/zatekoja/clothingsearch/internal/infrastructure/observability"
	"github.com/zatekoja/clothingsearch/pkg/config"
)

// joinGrace is how long the join waits past the deadline for tasks that
// honour cancellation to report.
const joinGrace = 100 * time.Millisecond

// fanOut queries every eligible provider concurrently under a per-provider
// timeout and an overall deadline.
type fanOut struct {
	registry ProviderRegistry
	metrics  *observability.Metrics
	cfg      config.SearchConfig
}

func newFanOut(registry ProviderRegistry, metrics *observability.Metrics, cfg config.SearchConfig) *fanOut {
	if cfg.MaxConcurrentProviders <= 0 {
		cfg.MaxConcurrentProviders = 1
	}
	return &fanOut{registry: registry, metrics: metrics, cfg: cfg}
}

// run starts one task per eligible provider and joins them. Outcomes are in
// provider order. If the join misses the deadline, unfinished tasks are
// reported as timed out and ErrAggregateJoin is returned.
func (f *fanOut) run(ctx context.Context, sc entities.SearchContext, pref *entities.UserPreference) ([]entities.ProviderOutcome, error) {
	eligible := f.registry.Eligible(sc.CountryID)
	outcomes := make([]entities.ProviderOutcome, len(eligible))
	if len(eligible) == 0 {
		return outcomes, nil
	}

	ctx, span := observability.StartSpan(ctx, "SearchService.fanOut", attribute.Int("search.providers", len(eligible)))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, f.cfg.Deadline)
	defer cancel()

	sem := semaphore.NewWeighted(int64(f.cfg.MaxConcurrentProviders))
	var (
		mu   sync.Mutex
		done = make([]bool, len(eligible))
		wg   sync.WaitGroup
	)
	for i, p := range eligible {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out := f.runProvider(ctx, sem, p, sc, pref)
			mu.Lock()
			outcomes[i] = out
			done[i] = true
			mu.Unlock()
		}()
	}

	joined := make(chan struct{})
	go func() {
		wg.Wait()
		close(joined)
	}()

	timer := time.NewTimer(f.cfg.Deadline + joinGrace)
	defer timer.Stop()

	select {
	case <-joined:
		return outcomes, nil
	case <-timer.C:
	}

	mu.Lock()
	defer mu.Unlock()
	snapshot := make([]entities.ProviderOutcome, len(outcomes))
	var pending []string
	for i, p := range eligible {
		if done[i] {
			snapshot[i] = outcomes[i]
			continue
		}
		pending = append(pending, p.Name())
		snapshot[i] = entities.ProviderOutcome{
			ProviderType: p.ProviderType(),
			StoreName:    p.Name(),
			Err:          fmt.Errorf("%w: %s did not return", ErrProviderTimeout, p.Name()),
			TimedOut:     true,
			Duration:     f.cfg.Deadline,
		}
	}
	observability.SearchJoinFailures.Inc()
	return snapshot, fmt.Errorf("%w: %d of %d providers pending %v", ErrAggregateJoin, len(pending), len(eligible), pending)
}

// runProvider executes one provider task, holding a slot of sem when sem is
// non-nil. It never panics; failures are captured on the outcome.
func (f *fanOut) runProvider(
	ctx context.Context,
	sem *semaphore.Weighted,
	p providers.StoreProvider,
	sc entities.SearchContext,
	pref *entities.UserPreference,
) (out entities.ProviderOutcome) {
	out.ProviderType = p.ProviderType()
	out.StoreName = p.Name()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			out.Products = nil
			out.Err = fmt.Errorf("%w: %s panicked: %v", ErrProviderFailure, out.StoreName, r)
		}
		out.Duration = time.Since(start)
		f.observeProvider(ctx, out)
	}()

	if sem != nil {
		if err := sem.Acquire(ctx, 1); err != nil {
			out.Err = fmt.Errorf("%w: %s: %w", ErrProviderTimeout, out.StoreName, err)
			out.TimedOut = true
			return out
		}
		defer sem.Release(1)
	}

	pctx, cancel := context.WithTimeout(ctx, f.cfg.ProviderTimeout)
	defer cancel()

	products, err := p.Search(pctx, sc.Query, pref, sc.Category)
	switch {
	case err == nil && pctx.Err() == nil:
		out.Products = products
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(pctx.Err(), context.DeadlineExceeded):
		out.TimedOut = true
		if err == nil {
			err = pctx.Err()
		}
		out.Err = fmt.Errorf("%w: %s: %w", ErrProviderTimeout, out.StoreName, err)
	default:
		if err == nil {
			err = pctx.Err()
		}
		out.Err = fmt.Errorf("%w: %s: %w", ErrProviderFailure, out.StoreName, err)
	}
	return out
}

func (f *fanOut) observeProvider(ctx context.Context, out entities.ProviderOutcome) {
	outcome := "ok"
	switch {
	case out.TimedOut:
		outcome = "timeout"
	case out.Err != nil:
		outcome = "failed"
	}
	observability.ProviderOutcomes.WithLabelValues(out.StoreName, outcome).Inc()
	f.metrics.RecordProvider(ctx, out.ProviderType, out.OK(), out.Duration)

	if out.Err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(out.Err).
			Str("provider", out.StoreName).
			Str("provider_type", out.ProviderType).
			Dur("duration", out.Duration).
			Msg("Store provider search failed")
	}
}
