package observability

import (
	"context"
	"strconv"

	"github.com/aretw0/onion/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "onion"

// Metrics holds the collectors of one application.
type Metrics struct {
	dispatches  *prometheus.CounterVec
	invocations *prometheus.CounterVec
	failures    *prometheus.CounterVec
	inflight    prometheus.Gauge

	added       *prometheus.CounterVec
	initialized *prometheus.CounterVec
	buildFails  prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
// It panics if they are already registered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "events",
				Name:      "dispatched_total",
				Help:      "Total number of dispatched events.",
			},
			[]string{"event"},
		),
		invocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "events",
				Name:      "listener_invocations_total",
				Help:      "Total number of listener invocations.",
			},
			[]string{"event"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "events",
				Name:      "listener_failures_total",
				Help:      "Total number of listeners that returned an error.",
			},
			[]string{"event", "async"},
		),
		inflight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "events",
				Name:      "tasks_in_flight",
				Help:      "Asynchronous listeners currently running.",
			},
		),
		added: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "build",
				Name:      "components_added_total",
				Help:      "Components queued for initialization.",
			},
			[]string{"class"},
		),
		initialized: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "build",
				Name:      "components_initialized_total",
				Help:      "Components whose constructor completed.",
			},
			[]string{"class"},
		),
		buildFails: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "build",
				Name:      "failures_total",
				Help:      "Initialization passes that failed and were rolled back.",
			},
		),
	}
	reg.MustRegister(m.dispatches, m.invocations, m.failures, m.inflight, m.added, m.initialized, m.buildFails)
	return m
}

// EventDispatched implements events.Recorder.
func (m *Metrics) EventDispatched(event string, listeners int) {
	m.dispatches.WithLabelValues(event).Inc()
	m.invocations.WithLabelValues(event).Add(float64(listeners))
}

// ListenerFailed implements events.Recorder.
func (m *Metrics) ListenerFailed(event string, async bool) {
	m.failures.WithLabelValues(event, strconv.FormatBool(async)).Inc()
}

// TaskStarted implements events.Recorder.
func (m *Metrics) TaskStarted() {
	m.inflight.Inc()
}

// TaskFinished implements events.Recorder.
func (m *Metrics) TaskFinished() {
	m.inflight.Dec()
}

// Hooks returns lifecycle hooks recording build progress.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnComponentAdded: func(_ context.Context, e *domain.ComponentEvent) {
			m.added.WithLabelValues(e.Class).Inc()
		},
		OnComponentInitialized: func(_ context.Context, e *domain.ComponentEvent) {
			m.initialized.WithLabelValues(e.Class).Inc()
		},
		OnBuildFailed: func(context.Context, *domain.BuildEvent) {
			m.buildFails.Inc()
		},
	}
}
