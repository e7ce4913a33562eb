// Package metrics exposes application counters on an explicitly constructed
// Prometheus registry. The registry is created in main and passed to whoever
// needs it; there is no package-level state.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	registrationsTotal  prometheus.Counter
	cancellationsTotal  prometheus.Counter
	eventsCreated       prometheus.Counter
	errorsTotal         *prometheus.CounterVec
	registrationsFailed *prometheus.CounterVec
}

// New creates a Metrics with its own registry and registers all collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "innoevent_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "innoevent_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		registrationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "innoevent_registrations_total",
			Help: "Total number of successful event registrations",
		}),
		cancellationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "innoevent_cancellations_total",
			Help: "Total number of cancelled registrations",
		}),
		eventsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "innoevent_events_created_total",
			Help: "Total number of events created",
		}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "innoevent_errors_total",
			Help: "Total number of failed requests by HTTP status",
		}, []string{"status"}),
		registrationsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "innoevent_registrations_failed_total",
			Help: "Registration attempts rejected by the ledger, by reason",
		}, []string{"reason"}),
	}
	reg.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.registrationsTotal,
		m.cancellationsTotal,
		m.eventsCreated,
		m.errorsTotal,
		m.registrationsFailed,
	)
	return m
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTPRequest records one handled HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	m.requestsTotal.WithLabelValues(method, path, status).Inc()
	m.requestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncRegistration counts one successful registration.
func (m *Metrics) IncRegistration() {
	m.registrationsTotal.Inc()
}

// IncCancellation counts one cancelled registration.
func (m *Metrics) IncCancellation() {
	m.cancellationsTotal.Inc()
}

// IncEventCreated counts one created event.
func (m *Metrics) IncEventCreated() {
	m.eventsCreated.Inc()
}

// IncError counts one failed request by HTTP status.
func (m *Metrics) IncError(status string) {
	m.errorsTotal.WithLabelValues(status).Inc()
}

// IncRegistrationFailed counts one ledger rejection by reason
// (capacity_exceeded, already_registered, conflict).
func (m *Metrics) IncRegistrationFailed(reason string) {
	m.registrationsFailed.WithLabelValues(reason).Inc()
}
