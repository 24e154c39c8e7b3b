// Package metrics exposes prometheus instruments for the membership flows.
// All methods are nil-safe so callers can run without instrumentation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registration outcomes.
const (
	RegistrationSuccess  = "success"
	RegistrationInvalid  = "invalid"
	RegistrationConflict = "conflict"
	RegistrationError    = "error"
)

// Login outcomes.
const (
	LoginSuccess            = "success"
	LoginInvalidCredentials = "invalid_credentials"
	LoginAccountNotUsable   = "account_not_usable"
	LoginError              = "error"
)

// Event consumption outcomes.
const (
	EventProcessed = "processed"
	EventIgnored   = "ignored"
	EventRetry     = "retry"
	EventRejected  = "rejected"
)

// Listing sources.
const (
	ListSourceCache = "cache"
	ListSourceStore = "store"
)

var durationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// Metrics groups the counters and histograms recorded by the usecases and HTTP layer.
type Metrics struct {
	Registrations     *prometheus.CounterVec
	Logins            *prometheus.CounterVec
	ListRequests      *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	EventsConsumed    *prometheus.CounterVec
}

// NewRegistry creates the registry served on /metrics, preloaded with the Go and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return reg
}

// New creates a Metrics instance with every instrument registered on reg.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "membership_registrations_total",
			Help: "Registration attempts by outcome",
		}, []string{"outcome"}),
		Logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "membership_logins_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
		ListRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "membership_list_requests_total",
			Help: "Admin listing requests by the source that served them",
		}, []string{"source"}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "membership_operation_duration_seconds",
			Help:    "Duration of register, login and list operations",
			Buckets: durationBuckets,
		}, []string{"operation"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "membership_http_requests_total",
			Help: "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "membership_http_request_duration_seconds",
			Help:    "HTTP request latency by route and method",
			Buckets: durationBuckets,
		}, []string{"route", "method"}),
		EventsConsumed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "membership_events_consumed_total",
			Help: "Member events received by the worker, by type and outcome",
		}, []string{"event_type", "outcome"}),
	}
}

// RecordRegistration counts one registration attempt.
func (m *Metrics) RecordRegistration(outcome string) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(outcome).Inc()
}

// RecordLogin counts one login attempt.
func (m *Metrics) RecordLogin(outcome string) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(outcome).Inc()
}

// RecordList counts one listing served from source.
func (m *Metrics) RecordList(source string) {
	if m == nil {
		return
	}
	m.ListRequests.WithLabelValues(source).Inc()
}

// ObserveOperation records the duration of operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveOperation(operation string, start time.Time) {
	if m == nil {
		return
	}
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(route, method, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, method, status).Inc()
	m.HTTPDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// RecordEvent counts one pushed event.
func (m *Metrics) RecordEvent(eventType, outcome string) {
	if m == nil {
		return
	}
	m.EventsConsumed.WithLabelValues(eventType, outcome).Inc()
}
