package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultOK      = "ok"
	ResultFailed  = "failed"
	ResultInvalid = "invalid"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	ActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_requests",
			Help: "Current number of active HTTP requests",
		},
	)

	// CompoundActionsTotal counts the multi-row actions by outcome.
	CompoundActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compound_actions_total",
			Help: "Total number of compound category/note actions",
		},
		[]string{"action", "result"}, // delete_with_notes/move_notes_and_delete/bulk_move, ok/failed/invalid
	)

	// AuthAttempts counts logins and token refreshes.
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"status", "type"}, // success/failure, login/refresh
	)
)

// ObserveAction records the outcome of a compound action.
// 'failed' means the transaction was rolled back on a storage error,
// 'invalid' means it was refused before anything was written.
func ObserveAction(action, result string) {
	CompoundActionsTotal.WithLabelValues(action, result).Inc()
}

func ObserveAuth(kind string, ok bool) {
	status := "failure"
	if ok {
		status = "success"
	}
	AuthAttempts.WithLabelValues(status, kind).Inc()
}
