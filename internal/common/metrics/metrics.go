// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RunsFinalized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screening_runs_finalized_total",
			Help: "Total number of finalized screening runs",
		},
		[]string{"decision", "terminal_state"},
	)

	EvaluationAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screening_evaluation_attempts_total",
			Help: "Total number of evaluation service calls",
		},
		[]string{"outcome"},
	)

	SlotsBooked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "screening_slots_booked_total",
			Help: "Total number of interview slots reserved",
		},
	)

	ReservationConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "screening_reservation_conflicts_total",
			Help: "Total number of reservation attempts rejected by a concurrent booking",
		},
	)

	AllocationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "screening_allocation_duration_seconds",
			Help: "Duration of slot allocation scans in seconds",
		},
	)

	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "screening_run_duration_seconds",
			Help: "Duration of complete workflow runs in seconds",
		},
		[]string{"terminal_state"},
	)
)
