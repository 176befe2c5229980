package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RunsTotal counts completed analysis runs.
	RunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "badgesentry_runs_total",
			Help: "Total number of analysis runs executed",
		},
	)

	// EventsLoaded counts badge events fed into analysis.
	EventsLoaded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "badgesentry_events_loaded_total",
			Help: "Total number of badge events analyzed",
		},
	)

	// FindingsEmitted counts emitted findings per result collection.
	FindingsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "badgesentry_findings_total",
			Help: "Total number of findings emitted per collection",
		},
		[]string{"collection"},
	)

	// AnalysisFailures counts failed analyses per analysis kind.
	AnalysisFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "badgesentry_analysis_failures_total",
			Help: "Total number of failed analyses",
		},
		[]string{"analysis"},
	)

	// RunDuration tracks wall-clock duration of a full analysis run.
	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "badgesentry_run_duration_seconds",
			Help:    "Duration of a full analysis run in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
