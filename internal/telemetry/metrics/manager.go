package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterLogins            *prometheus.CounterVec
	CounterRegistrations     *prometheus.CounterVec
	CounterSessions          *prometheus.CounterVec
	CounterPointsAwarded     prometheus.Counter
	CounterStoreLinesSkipped prometheus.Counter

	// gauges
	GaugeUsers prometheus.Gauge

	// histograms
	HistStoreSaveDuration prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("fittrack", "test", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("fittrack", "test", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterLogins := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "logins",
		Help:      "The total number of login attempts",
	}, []string{"result"})
	counterRegistrations := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "registrations",
		Help:      "The total number of registration attempts",
	}, []string{"result"})
	counterSessions := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "workout_sessions",
		Help:      "The total number of completed workout sessions",
	}, []string{"kind"})
	counterPointsAwarded := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "points_awarded",
		Help:      "The total number of points awarded to users",
	})
	counterStoreLinesSkipped := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "store_lines_skipped",
		Help:      "Number of malformed user records skipped while loading",
	})

	gaugeUsers := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "users",
		Help:      "Number of users in the store after the last load or save",
	})

	histStoreSaveDuration := factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets: []float64{
				0.00001, 0.0001, 0.001, 0.01, 0.1, 1, 10,
			},
			Name: "store_save_duration_seconds",
			Help: "Duration of a full user store rewrite in seconds",
		},
	)

	return &Manager{
		CounterLogins:            counterLogins,
		CounterRegistrations:     counterRegistrations,
		CounterSessions:          counterSessions,
		CounterPointsAwarded:     counterPointsAwarded,
		CounterStoreLinesSkipped: counterStoreLinesSkipped,
		GaugeUsers:               gaugeUsers,
		HistStoreSaveDuration:    histStoreSaveDuration,
	}
}
