package metrics_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/2beens/fittrack/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager(t *testing.T) {
	m, reg := metrics.NewTestManagerAndRegistry()
	require.NotNil(t, m)

	m.CounterLogins.WithLabelValues("ok").Inc()
	m.CounterLogins.WithLabelValues("ok").Inc()
	m.CounterLogins.WithLabelValues("auth").Inc()
	m.CounterPointsAwarded.Add(15)
	m.GaugeUsers.Set(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterLogins.WithLabelValues("ok")))
	assert.Equal(t, 15.0, testutil.ToFloat64(m.CounterPointsAwarded))

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := map[string]*dto.MetricFamily{}
	for _, f := range families {
		byName[f.GetName()] = f
	}
	require.Contains(t, byName, "fittrack_test_logins")
	assert.Len(t, byName["fittrack_test_logins"].GetMetric(), 2)
	require.Contains(t, byName, "fittrack_test_users")
	assert.Equal(t, 3.0, byName["fittrack_test_users"].GetMetric()[0].GetGauge().GetValue())
}

func TestWriteTextfile(t *testing.T) {
	m, reg := metrics.NewTestManagerAndRegistry()
	m.CounterSessions.WithLabelValues("exercise").Inc()

	path := filepath.Join(t.TempDir(), "fittrack.prom")
	require.NoError(t, metrics.WriteTextfile(path, reg))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(content), `fittrack_test_workout_sessions{kind="exercise"} 1`))

	// empty path is a no-op
	assert.NoError(t, metrics.WriteTextfile("", reg))
}
