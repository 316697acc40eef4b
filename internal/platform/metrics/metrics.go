package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the complaint lifecycle.
type Metrics struct {
	ComplaintsCreated   prometheus.Counter
	TransitionsApplied  *prometheus.CounterVec
	TransitionConflicts prometheus.Counter
	ProjectionRetries   prometheus.Counter
	ProjectionFailures  prometheus.Counter
	CaseViewsServed     prometheus.Counter
	EntriesFiltered     prometheus.Counter
	TransitionDuration  prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ComplaintsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caseline_complaints_created_total",
			Help: "Total number of complaints filed",
		}),
		TransitionsApplied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "caseline_status_transitions_total",
			Help: "Total number of status transitions applied, by target status",
		}, []string{"status"}),
		TransitionConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caseline_status_transition_conflicts_total",
			Help: "Transitions rejected because the current status moved underneath the caller",
		}),
		ProjectionRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caseline_projection_retries_total",
			Help: "Re-applications of history/timeline projections after a partial transition failure",
		}),
		ProjectionFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caseline_projection_failures_total",
			Help: "Transitions whose projections failed to converge within the retry budget",
		}),
		CaseViewsServed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caseline_case_views_total",
			Help: "Aggregated case views served",
		}),
		EntriesFiltered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caseline_entries_withheld_total",
			Help: "Timeline/evidence entries withheld from responses by the visibility filter",
		}),
		TransitionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "caseline_status_transition_duration_seconds",
			Help:    "Latency of the full three-step transition write protocol",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
