package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Gateway exchange metrics
	gatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realex_gateway_requests_total",
			Help: "Total number of gateway exchanges",
		},
		[]string{"operation", "outcome"},
	)

	gatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "realex_gateway_request_duration_seconds",
			Help:    "Duration of gateway exchanges in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	gatewayRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "realex_gateway_requests_in_flight",
			Help: "Number of gateway exchanges currently being processed",
		},
	)
)

// Outcome labels for gatewayRequestsTotal.
const (
	OutcomeApproved       = "approved"
	OutcomeDeclined       = "declined"
	OutcomeTransportError = "transport_error"
	OutcomeParseError     = "parse_error"
	OutcomeInvalidRequest = "invalid_request"
)

// RecordGatewayRequest records the outcome and duration of one gateway
// exchange.
func RecordGatewayRequest(operation, outcome string, duration time.Duration) {
	gatewayRequestsTotal.WithLabelValues(operation, outcome).Inc()
	gatewayRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordRejectedRequest counts a request that failed validation before any
// exchange started. No duration is observed for these.
func RecordRejectedRequest(operation string) {
	gatewayRequestsTotal.WithLabelValues(operation, OutcomeInvalidRequest).Inc()
}

// TrackInFlight marks one exchange as started and returns the function that
// marks it finished.
func TrackInFlight() func() {
	gatewayRequestsInFlight.Inc()
	return gatewayRequestsInFlight.Dec
}
