package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersIncrement(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg, "test")

	m.IncBooking("created")
	m.IncBooking("created")
	m.IncBooking("conflict")
	m.IncTransition("SCHEDULED", "CONFIRMED")
	m.IncSyncJob("appointment", "synced")
	m.ObserveHTTP("GET", "/api/v1/appointments/{appointmentId}", 200, 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.bookings.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookings.WithLabelValues("conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("SCHEDULED", "CONFIRMED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.syncJobs.WithLabelValues("appointment", "synced")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/appointments/{appointmentId}", "200")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.IncBooking("created")
		m.IncTransition("a", "b")
		m.IncSyncJob("x", "y")
		m.ObserveHTTP("GET", "/", 200, time.Second)
		m.ObserveQuery("SELECT", time.Second)
		m.SetPoolStats(1, 1, 0, 0)
	})
}
