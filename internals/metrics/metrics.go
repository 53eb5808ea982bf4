package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request latency (seconds)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "housetrack_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route", "status"},
	)

	// House activity status transitions
	ActivityStatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "housetrack_activity_status_transitions_total",
			Help: "House activity status transitions",
		},
		[]string{"from", "to"},
	)

	// Explicit status overrides that contradict the derived status
	ActivityStatusOverrides = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "housetrack_activity_status_overrides_total",
			Help: "Explicit statuses stored although the fields derive a different one",
		},
	)

	// Project housesCompleted adjustments
	HouseRollups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "housetrack_house_rollups_total",
			Help: "Project housesCompleted adjustments",
		},
		[]string{"direction"}, // increment, decrement
	)

	// Rows rewritten by the recount maintenance
	RecountRepairs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "housetrack_recount_repairs_total",
			Help: "Aggregate rows corrected by recount",
		},
		[]string{"entity"}, // house, project
	)
)

func RecordHTTPRequest(method, route string, status int, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

func RecordStatusTransition(from, to string) {
	ActivityStatusTransitions.WithLabelValues(from, to).Inc()
}

func RecordRollup(direction string) {
	HouseRollups.WithLabelValues(direction).Inc()
}

func RecordRecountRepairs(entity string, n int) {
	if n > 0 {
		RecountRepairs.WithLabelValues(entity).Add(float64(n))
	}
}
