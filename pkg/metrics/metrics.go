package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	GatewayRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "salon", Name: "gateway_requests_total", Help: "Backend calls by operation and outcome."},
		[]string{"operation", "outcome"},
	)
	GatewayLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "salon", Name: "gateway_request_duration_seconds", Help: "Backend call latency by operation.", Buckets: prometheus.DefBuckets},
		[]string{"operation"},
	)
	AuthResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "salon", Name: "auth_results_total", Help: "Auth controller terminal states by operation."},
		[]string{"operation", "state"},
	)
	ReservationDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "salon", Name: "reservation_decisions_total", Help: "Admin accept/reject decisions."},
		[]string{"decision"},
	)
	BookingRejections = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "salon", Name: "booking_validation_rejections_total", Help: "Reservation attempts refused by the booking window check."},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(GatewayRequests)
	reg.MustRegister(GatewayLatency)
	reg.MustRegister(AuthResults)
	reg.MustRegister(ReservationDecisions)
	reg.MustRegister(BookingRejections)
}
