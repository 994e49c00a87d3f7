/*
Package observability exposes Prometheus metrics for the event dispatcher and
the component build.

Metrics implements events.Recorder and produces domain.LifecycleHooks, so one
value instruments both layers:

	m := observability.NewMetrics(prometheus.NewRegistry())
	d := events.NewDispatcher(events.WithRecorder(m))
	f := component.NewFactory(d, component.WithHooks(m.Hooks()))
*/
package observability
