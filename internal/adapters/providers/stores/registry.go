package stores

import (
	"github.com/zatekoja/clothingsearch/internal/domain/providers"
	"github.com/zatekoja/clothingsearch/pkg/config"
)

// Registry is the fixed set of store providers for the process lifetime.
// It is read-only after construction and safe for concurrent use.
type Registry struct {
	providers []providers.StoreProvider
}

// NewRegistry creates a registry over ps in the given order.
func NewRegistry(ps ...providers.StoreProvider) *Registry {
	return &Registry{providers: append([]providers.StoreProvider(nil), ps...)}
}

// NewDefaultRegistry builds the shipped providers, each behind a breaker.
func NewDefaultRegistry(search config.SearchConfig, breaker config.BreakerConfig) *Registry {
	return NewRegistry(
		NewResilientProvider(NewHervisProvider(search.ProviderLatency), breaker),
		NewResilientProvider(NewAmazonProvider(search.ProviderLatency), breaker),
	)
}

// All returns every registered provider in registration order.
func (r *Registry) All() []providers.StoreProvider {
	return append([]providers.StoreProvider(nil), r.providers...)
}

// Eligible returns the providers serving countryID in registration order.
// The result is empty, not nil, when none match.
func (r *Registry) Eligible(countryID int) []providers.StoreProvider {
	eligible := make([]providers.StoreProvider, 0, len(r.providers))
	for _, p := range r.providers {
		if p.SupportsCountry(countryID) {
			eligible = append(eligible, p)
		}
	}
	return eligible
}

// SupportedStores returns the store names serving countryID.
func (r *Registry) SupportedStores(countryID int) []string {
	eligible := r.Eligible(countryID)
	names := make([]string, 0, len(eligible))
	for _, p := range eligible {
		names = append(names, p.Name())
	}
	return names
}
