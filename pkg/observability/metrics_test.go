package observability_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/onion/pkg/component"
	"github.com/aretw0/onion/pkg/events"
	"github.com/aretw0/onion/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ping struct{}

func TestMetrics_Recorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	ctx := context.Background()

	d := events.NewDispatcher(events.WithRecorder(m))
	src := events.NewSource[ping](d)
	src.Listen(func(context.Context, ping) error { return nil })
	src.Listen(func(context.Context, ping) error { return errors.New("boom") })
	src.ListenAsync(func(context.Context, ping) error { return nil })

	assert.Error(t, src.Dispatch(ctx, ping{}))
	require.NoError(t, d.Run(ctx))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.DispatchCounter("observability_test.ping")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlight()))

	count, err := testutil.GatherAndCount(reg, "onion_events_listener_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

type widget struct{}

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	ctx := context.Background()

	class := component.NewClass[widget]("test.Widget", nil)
	f := component.NewFactory(nil, component.WithHooks(m.Hooks()))
	_, err := f.Add(ctx, "w", class, nil, nil, nil)
	require.NoError(t, err)
	require.NoError(t, f.Initialize(ctx))

	broken := component.NewClass[widget]("test.Broken", func(*widget, component.Args) error {
		return errors.New("nope")
	})
	_, err = f.Add(ctx, "b", broken, nil, nil, nil)
	require.NoError(t, err)
	assert.Error(t, f.Initialize(ctx))

	count, err := testutil.GatherAndCount(reg,
		"onion_build_components_added_total",
		"onion_build_components_initialized_total",
		"onion_build_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 4, count, "two added series, one initialized series, one failure counter")
}
