package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	scheduleSaved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pawplanner",
			Name:      "schedule_saved_total",
			Help:      "Count of day-schedule save attempts by result.",
		},
		[]string{"result"},
	)

	scheduleDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pawplanner",
			Name:      "schedule_deleted_total",
			Help:      "Count of day-schedule records deleted.",
		},
	)

	validationFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pawplanner",
			Name:      "validation_failed_total",
			Help:      "Count of rejected edits by validation reason.",
		},
		[]string{"reason"},
	)

	conflictDecision = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pawplanner",
			Name:      "conflict_decision_total",
			Help:      "Count of day-off conflict confirmations by decision.",
		},
		[]string{"decision"},
	)

	windowLoaded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pawplanner",
			Name:      "window_loaded_total",
			Help:      "Count of month-window loads by result.",
		},
		[]string{"result"},
	)

	staleWindowDiscarded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pawplanner",
			Name:      "stale_window_discarded_total",
			Help:      "Count of in-flight window responses discarded as stale.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			scheduleSaved, scheduleDeleted, validationFailed,
			conflictDecision, windowLoaded, staleWindowDiscarded,
		)
	})
}

func IncScheduleSaved(result string) {
	scheduleSaved.WithLabelValues(result).Inc()
}

func IncScheduleDeleted() {
	scheduleDeleted.Inc()
}

func IncValidationFailed(reason string) {
	validationFailed.WithLabelValues(reason).Inc()
}

func IncConflictDecision(decision string) {
	conflictDecision.WithLabelValues(decision).Inc()
}

func IncWindowLoaded(result string) {
	windowLoaded.WithLabelValues(result).Inc()
}

func IncStaleWindowDiscarded() {
	staleWindowDiscarded.Inc()
}
