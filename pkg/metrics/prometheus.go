package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	PreferencesCommitted prometheus.Counter
	SupersedeDeletes     prometheus.Counter
	MemoryRecordsParsed  prometheus.Counter
	BookingsExcluded     prometheus.Counter
	CommitDuration       prometheus.Histogram
	ErrorsCount          *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		PreferencesCommitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "preferences_committed_total",
			Help:      "The total number of preference drafts committed",
		}),
		SupersedeDeletes: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "supersede_deletes_total",
			Help:      "The total number of best-effort supersede deletes issued",
		}),
		MemoryRecordsParsed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "memory_records_parsed_total",
			Help:      "The total number of free-text memory records parsed",
		}),
		BookingsExcluded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_excluded_total",
			Help:      "The total number of history entries excluded as non-bookings",
		}),
		CommitDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "preference_commit_duration_seconds",
			Help:      "Time taken to commit a preference draft",
			Buckets:   prometheus.DefBuckets,
		}),
		ErrorsCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
