// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assistant_sessions_started_total",
			Help: "Total number of conversation sessions started",
		},
	)

	SessionsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assistant_sessions_completed_total",
			Help: "Total number of conversation sessions that reached DONE",
		},
	)

	Classifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_classifications_total",
			Help: "Total number of symptom classification attempts by outcome",
		},
		[]string{"outcome"},
	)

	TableLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_table_lookups_total",
			Help: "Total number of remedy/OTC table lookups by table and result",
		},
		[]string{"table", "result"},
	)

	GeocodeRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_geocode_requests_total",
			Help: "Total number of geocode requests by status",
		},
		[]string{"status"},
	)

	PlacesRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_places_requests_total",
			Help: "Total number of nearby-services requests by status",
		},
		[]string{"status"},
	)

	LivenessRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assistant_liveness_requests_total",
			Help: "Total number of requests answered by the liveness responder",
		},
	)
)
