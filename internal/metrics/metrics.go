// Package metrics exposes Prometheus collectors for tree updates and the
// native notifications they produce.
//
// A nil *Metrics is valid and records nothing, so components take one as an
// optional dependency.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Native call results.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics holds the collectors of one registry.
type Metrics struct {
	updatesApplied    prometheus.Counter
	violations        *prometheus.CounterVec
	changes           *prometheus.CounterVec
	nativeCalls       *prometheus.CounterVec
	lazyConstructions prometheus.Counter
	updateNodes       prometheus.Histogram
}

// New registers the collectors on reg. A nil reg creates unregistered
// collectors, which is convenient in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		updatesApplied: f.NewCounter(prometheus.CounterOpts{
			Name: "axtree_updates_applied_total",
			Help: "Tree updates applied successfully",
		}),
		violations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "axtree_update_violations_total",
			Help: "Tree updates rejected for an invariant violation, by code",
		}, []string{"code"}),
		changes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "axtree_changes_total",
			Help: "Semantic tree changes emitted, by kind",
		}, []string{"kind"}),
		nativeCalls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "axtree_native_calls_total",
			Help: "Native accessibility calls, by call and result",
		}, []string{"call", "result"}),
		lazyConstructions: f.NewCounter(prometheus.CounterOpts{
			Name: "axtree_lazy_constructions_total",
			Help: "Trees constructed on first demand",
		}),
		updateNodes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "axtree_update_nodes",
			Help:    "Node entries per applied update",
			Buckets: []float64{1, 2, 5, 10, 50, 100, 500, 1000},
		}),
	}
}

// UpdateApplied records a successful update with the given number of node entries.
func (m *Metrics) UpdateApplied(nodes int) {
	if m == nil {
		return
	}
	m.updatesApplied.Inc()
	m.updateNodes.Observe(float64(nodes))
}

// Violation records a rejected update.
func (m *Metrics) Violation(code string) {
	if m == nil {
		return
	}
	m.violations.WithLabelValues(code).Inc()
}

// Change records one emitted change.
func (m *Metrics) Change(kind string) {
	if m == nil {
		return
	}
	m.changes.WithLabelValues(kind).Inc()
}

// NativeCall records one native call and whether it failed.
func (m *Metrics) NativeCall(call string, err error) {
	if m == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.nativeCalls.WithLabelValues(call, result).Inc()
}

// LazyConstructed records a first-demand tree construction.
func (m *Metrics) LazyConstructed() {
	if m == nil {
		return
	}
	m.lazyConstructions.Inc()
}
