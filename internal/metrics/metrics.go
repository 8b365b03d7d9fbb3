// Package metrics declares the Prometheus collectors for the page-state
// cache. Collectors are registered on the default registry at init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Transition labels for Navigations.
const (
	TransitionNoOp    = "noop"
	TransitionDrill   = "drill"
	TransitionSibling = "sibling"
)

// Eviction scope labels for Evictions.
const (
	ScopeList  = "list"
	ScopeKeyed = "keyed"
)

// Persist result labels for Persists.
const (
	ResultOK       = "ok"
	ResultError    = "error"
	ResultSkipped  = "skipped"
	ResultCorrupt  = "corrupt"
	ResultMissing  = "missing"
	ResultHydrated = "hydrated"
)

var (
	// Navigations counts navigation events by transition type.
	Navigations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tradestate_navigations_total",
		Help: "Navigation events by transition type",
	}, []string{"transition"})

	// Evictions counts evicted list pages and keyed slots.
	Evictions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tradestate_evictions_total",
		Help: "Evicted page-state entries by scope",
	}, []string{"scope"})

	// Persists counts slot writes by slot and result.
	Persists = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tradestate_persist_total",
		Help: "Slot writes by slot and result",
	}, []string{"slot", "result"})

	// Hydrations counts slot reads at startup by slot and result.
	Hydrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tradestate_hydrate_total",
		Help: "Slot hydrations by slot and result",
	}, []string{"slot", "result"})
)
