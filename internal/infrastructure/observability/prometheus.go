package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker/v2"
)

// Prometheus collectors served on /metrics. They live on the default registry
// so promhttp.Handler exposes them alongside the Go runtime collectors.
var (
	ProviderOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_provider_outcomes_total",
			Help: "Store provider fetches by provider and outcome (ok, failed, timeout, rejected)",
		},
		[]string{"provider", "outcome"},
	)

	BreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "store_provider_breaker_state",
			Help: "Current state of the provider circuit breaker (0=closed, 1=half-open, 2=open)",
		},
		[]string{"provider"},
	)

	SearchJoinFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "search_join_failures_total",
			Help: "Searches whose provider join missed the overall deadline",
		},
	)
)

func init() {
	prometheus.MustRegister(ProviderOutcomes, BreakerState, SearchJoinFailures)
}

// BreakerStateValue maps gobreaker states to BreakerState gauge values.
func BreakerStateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
