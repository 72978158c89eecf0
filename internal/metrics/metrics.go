package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "estate_http_requests_total",
		Help: "Total HTTP requests by method, route and status",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "estate_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// AuthOperationsTotal counts credential operations, e.g. signin/failure.
	AuthOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "estate_auth_operations_total",
		Help: "Authentication operations by operation and outcome",
	}, []string{"operation", "outcome"})

	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "estate_notifications_total",
		Help: "Outbound notification attempts by kind and outcome",
	}, []string{"kind", "outcome"})

	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "estate_events_published_total",
		Help: "Identity lifecycle events by type and outcome",
	}, []string{"type", "outcome"})

	// ListingOperationsTotal counts writes to listings, inquiries, bookings
	// and contact messages.
	ListingOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "estate_listing_operations_total",
		Help: "Brokerage record writes by resource, operation and outcome",
	}, []string{"resource", "operation", "outcome"})

	ExpiredCodesCleared = promauto.NewCounter(prometheus.CounterOpts{
		Name: "estate_expired_codes_cleared_total",
		Help: "Identities whose expired OTP or reset code was cleared",
	})
)

// Outcome maps an operation error to its label value.
func Outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

func RecordAuth(operation string, err error) {
	AuthOperationsTotal.WithLabelValues(operation, Outcome(err)).Inc()
}

func RecordNotification(kind string, err error) {
	NotificationsTotal.WithLabelValues(kind, Outcome(err)).Inc()
}

func RecordListing(resource, operation string, err error) {
	ListingOperationsTotal.WithLabelValues(resource, operation, Outcome(err)).Inc()
}
