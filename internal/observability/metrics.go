package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	redistributionPasses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "training_planner",
		Subsystem: "redistribution",
		Name:      "passes_total",
		Help:      "Redistribution passes run, by whether the plan could be activated.",
	}, []string{"can_activate"})
	redistributionMoves = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "training_planner",
		Subsystem: "redistribution",
		Name:      "moves_total",
		Help:      "Workouts relocated off blocked days.",
	})
	redistributionUnresolved = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "training_planner",
		Subsystem: "redistribution",
		Name:      "unresolved_total",
		Help:      "Workouts left on a blocked day for lack of an alternative.",
	})

	adaptationRecords = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "training_planner",
		Subsystem: "reconciliation",
		Name:      "records_total",
		Help:      "Adaptation records produced, by adaptation type and assessment.",
	}, []string{"type", "assessment"})
	reconciliationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "training_planner",
		Subsystem: "reconciliation",
		Name:      "duration_seconds",
		Help:      "Wall time of a reconciliation pass including persistence.",
		Buckets:   prometheus.DefBuckets,
	})

	catalogLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "training_planner",
		Subsystem: "catalog",
		Name:      "lookups_total",
		Help:      "Workout template lookups, by cache result.",
	}, []string{"result"})

	activitiesImported = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "training_planner",
		Subsystem: "activities",
		Name:      "imported_total",
		Help:      "Activities stored, by source.",
	}, []string{"source"})
	lastActivityImported = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "training_planner",
		Subsystem: "activities",
		Name:      "last_imported_timestamp_seconds",
		Help:      "Unix timestamp of the most recent activity stored.",
	})
)

func init() {
	prometheus.MustRegister(
		redistributionPasses,
		redistributionMoves,
		redistributionUnresolved,
		adaptationRecords,
		reconciliationDuration,
		catalogLookups,
		activitiesImported,
		lastActivityImported,
	)
}

// RecordRedistribution counts one redistribution pass.
func RecordRedistribution(moves, unresolved int, canActivate bool) {
	label := "false"
	if canActivate {
		label = "true"
	}
	redistributionPasses.WithLabelValues(label).Inc()
	redistributionMoves.Add(float64(moves))
	redistributionUnresolved.Add(float64(unresolved))
}

// RecordAdaptation counts one adaptation record.
func RecordAdaptation(adaptationType, assessment string) {
	adaptationRecords.WithLabelValues(adaptationType, assessment).Inc()
}

// ObserveReconciliation records how long a pass took.
func ObserveReconciliation(d time.Duration) {
	reconciliationDuration.Observe(d.Seconds())
}

// RecordCatalogLookup counts a template cache hit or miss.
func RecordCatalogLookup(hit bool) {
	if hit {
		catalogLookups.WithLabelValues("hit").Inc()
		return
	}
	catalogLookups.WithLabelValues("miss").Inc()
}

// RecordActivityImported updates the import counter and watermark.
func RecordActivityImported(source string, ts time.Time) {
	activitiesImported.WithLabelValues(source).Inc()
	if ts.IsZero() {
		return
	}
	lastActivityImported.Set(float64(ts.Unix()))
}
