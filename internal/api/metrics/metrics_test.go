package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveLogin(LoginSucceeded)
	m.ObserveLogin(LoginFailed)
	m.ObserveLogin(LoginFailed)
	m.ObserveRegistration("intern")
	m.ObserveApplication()
	m.AuditEventDropped("login_failed")

	if got := testutil.ToFloat64(m.LoginsTotal.WithLabelValues(LoginFailed)); got != 2 {
		t.Fatalf("expected 2 failed logins, got %v", got)
	}
	if got := testutil.ToFloat64(m.LoginsTotal.WithLabelValues(LoginSucceeded)); got != 1 {
		t.Fatalf("expected 1 successful login, got %v", got)
	}
	if got := testutil.ToFloat64(m.RegistrationsTotal.WithLabelValues("intern")); got != 1 {
		t.Fatalf("expected 1 registration, got %v", got)
	}
	if got := testutil.ToFloat64(m.ApplicationsTotal); got != 1 {
		t.Fatalf("expected 1 application, got %v", got)
	}
	if got := testutil.ToFloat64(m.AuditEventsDroppedTotal.WithLabelValues("login_failed")); got != 1 {
		t.Fatalf("expected 1 dropped event, got %v", got)
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveLogin(LoginSucceeded)
	m.ObserveRegistration("company")
	m.ObserveApplication()
	m.AuditEventDropped("registered")
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	// Registering twice on one registry panics; separate registries must not.
	New(prometheus.NewRegistry())
	New(prometheus.NewRegistry())
}
