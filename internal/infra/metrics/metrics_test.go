package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(NewRegistry())

	m.RecordRegistration(RegistrationSuccess)
	m.RecordRegistration(RegistrationSuccess)
	m.RecordRegistration(RegistrationConflict)
	m.RecordLogin(LoginInvalidCredentials)
	m.RecordList(ListSourceCache)
	m.RecordEvent("member.registered", EventProcessed)

	assert.InDelta(t, 2, testutil.ToFloat64(m.Registrations.WithLabelValues(RegistrationSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Registrations.WithLabelValues(RegistrationConflict)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Logins.WithLabelValues(LoginInvalidCredentials)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ListRequests.WithLabelValues(ListSourceCache)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.EventsConsumed.WithLabelValues("member.registered", EventProcessed)), 0)
}

func TestMetrics_Histograms(t *testing.T) {
	reg := NewRegistry()
	m := New(reg)

	m.ObserveOperation("register", time.Now().Add(-10*time.Millisecond))
	m.ObserveHTTP("/api/register", "POST", "200", 15*time.Millisecond)

	assert.Equal(t, 1, testutil.CollectAndCount(m.OperationDuration, "membership_operation_duration_seconds"))
	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPDuration, "membership_http_request_duration_seconds"))
	assert.InDelta(t, 1, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/api/register", "POST", "200")), 0)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordRegistration(RegistrationSuccess)
		m.RecordLogin(LoginSuccess)
		m.RecordList(ListSourceStore)
		m.ObserveOperation("list", time.Now())
		m.ObserveHTTP("/", "GET", "200", time.Millisecond)
		m.RecordEvent("member.registered", EventIgnored)
	})
}

func TestNew_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(NewRegistry())
		New(NewRegistry())
	})
}
