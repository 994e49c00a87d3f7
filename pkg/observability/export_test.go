package observability

import "github.com/prometheus/client_golang/prometheus"

func (m *Metrics) DispatchCounter(event string) prometheus.Counter {
	return m.dispatches.WithLabelValues(event)
}

func (m *Metrics) InFlight() prometheus.Gauge {
	return m.inflight
}
