// Package metrics defines the custom Prometheus metrics of the InternQuest
// API. It is the single source of truth for metric names, labels, and help
// strings.
//
// Build one Metrics per registry with New; HTTP request metrics come from the
// echoprometheus middleware on the same registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "internquest"

// Login results.
const (
	LoginSucceeded = "success"
	LoginFailed    = "failure"
	LoginError     = "error"
)

// Metrics holds the collectors. A nil *Metrics records nothing.
type Metrics struct {
	// LoginsTotal counts login attempts.
	// Label:
	//   - result: "success", "failure" (bad credentials) or "error" (store failure)
	LoginsTotal *prometheus.CounterVec

	// RegistrationsTotal counts created accounts.
	// Label:
	//   - role: "intern" or "company"
	RegistrationsTotal *prometheus.CounterVec

	// ApplicationsTotal counts submitted internship applications.
	ApplicationsTotal prometheus.Counter

	// AuditEventsDroppedTotal counts auth events discarded because the
	// dispatcher queue was full.
	// Label:
	//   - type: the auth event type (e.g. "login_failed")
	AuditEventsDroppedTotal *prometheus.CounterVec
}

// New creates and registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		LoginsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "logins_total",
				Help:      "Total number of login attempts, by result.",
			},
			[]string{"result"},
		),
		RegistrationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "registrations_total",
				Help:      "Total number of accounts created, by role.",
			},
			[]string{"role"},
		),
		ApplicationsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "applications_total",
				Help:      "Total number of internship applications submitted.",
			},
		),
		AuditEventsDroppedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "audit_events_dropped_total",
				Help:      "Total number of auth audit events dropped because the queue was full.",
			},
			[]string{"type"},
		),
	}
}

func (m *Metrics) ObserveLogin(result string) {
	if m == nil {
		return
	}
	m.LoginsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveRegistration(role string) {
	if m == nil {
		return
	}
	m.RegistrationsTotal.WithLabelValues(role).Inc()
}

func (m *Metrics) ObserveApplication() {
	if m == nil {
		return
	}
	m.ApplicationsTotal.Inc()
}

// AuditEventDropped satisfies queue.DropCounter.
func (m *Metrics) AuditEventDropped(eventType string) {
	if m == nil {
		return
	}
	m.AuditEventsDroppedTotal.WithLabelValues(eventType).Inc()
}
