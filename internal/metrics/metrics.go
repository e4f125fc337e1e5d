package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mixlab",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	reservationsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mixlab",
			Name:      "reservations_created_total",
			Help:      "Committed reservations by recurrence kind.",
		},
		[]string{"recurrence"},
	)

	bookingConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mixlab",
			Name:      "booking_conflicts_total",
			Help:      "Booking requests rejected because a slot overlapped.",
		},
	)

	checkIns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mixlab",
			Name:      "check_ins_total",
			Help:      "Check-in scans by outcome.",
		},
		[]string{"outcome"},
	)

	notifyFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mixlab",
			Name:      "notify_failures_total",
			Help:      "Notification deliveries that exhausted retries.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, reservationsCreated, bookingConflicts, checkIns, notifyFailures)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncReservations counts a committed group by recurrence kind.
func IncReservations(recurrence string, n int) {
	reservationsCreated.WithLabelValues(recurrence).Add(float64(n))
}

// IncConflict counts a rejected booking request.
func IncConflict() {
	bookingConflicts.Inc()
}

// IncCheckIn counts a scan by outcome ("ok", "not_found", "already_used", ...).
func IncCheckIn(outcome string) {
	checkIns.WithLabelValues(outcome).Inc()
}

// IncNotifyFailure counts a notification that hit the dead letter queue.
func IncNotifyFailure() {
	notifyFailures.Inc()
}
