package stores

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
	"github.com/zatekoja/clothingsearch/internal/domain/entities"
	"github.com/zatekoja/clothingsearch/internal/domain/providers"
	"github.com/zatekoja/clothingsearch/internal/infrastructure/observability"
	"github.com/zatekoja/clothingsearch/pkg/config"
)

// ErrBreakerOpen is returned without calling the provider while its breaker
// is open or saturated in half-open state.
var ErrBreakerOpen = errors.New("provider circuit breaker open")

// ResilientProvider decorates a StoreProvider with a circuit breaker so a
// persistently failing backend is skipped fast instead of burning the
// per-provider timeout on every search.
type ResilientProvider struct {
	providers.StoreProvider
	breaker *gobreaker.CircuitBreaker[[]entities.Product]
}

// NewResilientProvider wraps inner with a breaker configured from cfg.
func NewResilientProvider(inner providers.StoreProvider, cfg config.BreakerConfig) *ResilientProvider {
	name := inner.Name()
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		// A search abandoned by its caller says nothing about the backend.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("provider", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("provider circuit breaker state change")
			observability.BreakerState.WithLabelValues(name).Set(observability.BreakerStateValue(to))
		},
	}

	observability.BreakerState.WithLabelValues(name).Set(0)

	return &ResilientProvider{
		StoreProvider: inner,
		breaker:       gobreaker.NewCircuitBreaker[[]entities.Product](settings),
	}
}

// Search runs the inner search through the breaker.
func (p *ResilientProvider) Search(ctx context.Context, query string, pref *entities.UserPreference, category string) ([]entities.Product, error) {
	products, err := p.breaker.Execute(func() ([]entities.Product, error) {
		return p.StoreProvider.Search(ctx, query, pref, category)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		observability.ProviderOutcomes.WithLabelValues(p.Name(), "rejected").Inc()
		return nil, fmt.Errorf("%s: %w: %w", p.Name(), ErrBreakerOpen, err)
	}
	return products, err
}

// State reports the current breaker state.
func (p *ResilientProvider) State() gobreaker.State {
	return p.breaker.State()
}
