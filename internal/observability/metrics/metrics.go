package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hradmin_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hradmin_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	roleResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hradmin_role_resolutions_total",
		Help: "Count of role resolutions by outcome",
	}, []string{"outcome"})

	recordMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hradmin_record_mutations_total",
		Help: "Count of record mutations by table, operation, and result",
	}, []string{"table", "operation", "result"})

	eventSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hradmin_event_subscribers",
		Help: "Number of connected session event subscribers",
	})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveRoleResolution counts one role resolution with its outcome
// ("resolved", "provisioned", "provision_failed", or "error").
func ObserveRoleResolution(outcome string) {
	roleResolutions.WithLabelValues(outcome).Inc()
}

// ObserveMutation counts one record mutation.
func ObserveMutation(table, operation, result string) {
	recordMutations.WithLabelValues(table, operation, result).Inc()
}

// IncrementSubscribers increments the event subscriber gauge.
func IncrementSubscribers() {
	eventSubscribers.Inc()
}

// DecrementSubscribers decrements the event subscriber gauge.
func DecrementSubscribers() {
	eventSubscribers.Dec()
}
