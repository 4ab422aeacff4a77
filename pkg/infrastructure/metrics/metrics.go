// Package metrics provides Prometheus metrics for the doorshop service
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors recorded by services and the HTTP layer.
// Collectors are registered on the registerer passed to New so tests can use
// a private registry.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	CutListsTotal       *prometheus.CounterVec
	EntryUpdatesTotal   *prometheus.CounterVec
	LeafMutationsTotal  *prometheus.CounterVec
	TransactionDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "doorshop_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "doorshop_http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		CutListsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "doorshop_cut_lists_total",
				Help: "Total number of door cut lists computed",
			},
			[]string{"outcome"},
		),
		EntryUpdatesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "doorshop_entry_updates_total",
				Help: "Total number of entry handing updates by leaf class transition",
			},
			[]string{"transition", "outcome"},
		),
		LeafMutationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "doorshop_leaf_mutations_total",
				Help: "Total number of door leaves added or removed by handing changes",
			},
			[]string{"action"},
		),
		TransactionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "doorshop_transaction_duration_seconds",
				Help:    "Duration of store transactions",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"operation", "outcome"},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.HTTPRequestsTotal,
			m.HTTPRequestDuration,
			m.CutListsTotal,
			m.EntryUpdatesTotal,
			m.LeafMutationsTotal,
			m.TransactionDuration,
		)
	}
	return m
}

// NewNop creates collectors that are not registered anywhere
func NewNop() *Metrics {
	return New(nil)
}

// Outcome labels an operation's result
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordCutList records a cut list computation
func (m *Metrics) RecordCutList(err error) {
	m.CutListsTotal.WithLabelValues(Outcome(err)).Inc()
}

// RecordEntryUpdate records a handing update and the leaf mutation it made
func (m *Metrics) RecordEntryUpdate(transition, leafAction string, err error) {
	m.EntryUpdatesTotal.WithLabelValues(transition, Outcome(err)).Inc()
	if err == nil && leafAction != "None" {
		m.LeafMutationsTotal.WithLabelValues(leafAction).Inc()
	}
}

// RecordTransaction records how long a unit of work took
func (m *Metrics) RecordTransaction(operation string, err error, duration time.Duration) {
	m.TransactionDuration.WithLabelValues(operation, Outcome(err)).Observe(duration.Seconds())
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Timer is a helper for measuring duration
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
