package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the registry services.
type Metrics struct {
	Mutations         *prometheus.CounterVec
	MergePatches      *prometheus.CounterVec
	CacheLookups      *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
}

// New registers the registry metrics on reg. Pass prometheus.NewRegistry()
// in tests to keep registrations isolated.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Mutations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "projet_registry_mutations_total",
			Help: "Committed registry writes by entity and action",
		}, []string{"entity", "action"}),
		MergePatches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "projet_registry_merge_patches_total",
			Help: "Partial updates applied, by entity",
		}, []string{"entity"}),
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "projet_registry_cache_lookups_total",
			Help: "Record cache lookups by entity and result (hit, miss, error)",
		}, []string{"entity", "result"}),
		OperationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "projet_registry_operation_duration_seconds",
			Help:    "Duration of registry service operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"entity", "operation"}),
	}
}

func (m *Metrics) IncrementMutation(entity, action string) {
	m.Mutations.WithLabelValues(entity, action).Inc()
}

func (m *Metrics) IncrementMergePatch(entity string) {
	m.MergePatches.WithLabelValues(entity).Inc()
}

func (m *Metrics) RecordCacheLookup(entity, result string) {
	m.CacheLookups.WithLabelValues(entity, result).Inc()
}

// ObserveOperation records the duration of a service call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveOperation(entity, operation string, start time.Time) {
	m.OperationDuration.WithLabelValues(entity, operation).Observe(time.Since(start).Seconds())
}
