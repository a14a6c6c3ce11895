// Package metrics exposes Prometheus counters for registration and
// validation outcomes.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "registration"

// Outcome labels for registration attempts
const (
	OutcomeSuccess   = "success"
	OutcomeInvalid   = "invalid"
	OutcomeDuplicate = "duplicate"
	OutcomeError     = "error"
)

// Metrics holds the service collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registrations  *prometheus.CounterVec
	rejectedFields *prometheus.CounterVec
	fieldChecks    *prometheus.CounterVec
	gatherer       prometheus.Gatherer
}

// New creates and registers all collectors with registry
func New(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attempts_total",
			Help:      "Registration attempts by outcome.",
		}, []string{"outcome"}),
		rejectedFields: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_fields_total",
			Help:      "Registrations rejected by validation, by first failing field.",
		}, []string{"field"}),
		fieldChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "field_checks_total",
			Help:      "Standalone field validations by field and result.",
		}, []string{"field", "valid"}),
		gatherer: registry,
	}
}

// ObserveRegistration records one registration attempt
func (m *Metrics) ObserveRegistration(outcome, field string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(outcome).Inc()
	if outcome == OutcomeInvalid && field != "" {
		m.rejectedFields.WithLabelValues(field).Inc()
	}
}

// ObserveFieldCheck records one standalone field validation
func (m *Metrics) ObserveFieldCheck(field string, valid bool) {
	if m == nil {
		return
	}
	label := "false"
	if valid {
		label = "true"
	}
	m.fieldChecks.WithLabelValues(field, label).Inc()
}

// Handler returns the HTTP handler serving the registry
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
