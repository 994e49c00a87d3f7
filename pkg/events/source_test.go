package events_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/aretw0/onion/pkg/domain"
	"github.com/aretw0/onion/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_ListenAndRemove(t *testing.T) {
	d := events.NewDispatcher()
	src := events.NewSource[int](d)
	var value atomic.Int64

	l := src.ListenAsync(func(_ context.Context, v int) error {
		value.Add(int64(v))
		return nil
	})

	require.NoError(t, src.Dispatch(context.Background(), 5))
	require.NoError(t, d.Run(context.Background()))
	assert.Equal(t, int64(5), value.Load())

	require.NoError(t, src.RemoveListener(l))
	require.NoError(t, src.Dispatch(context.Background(), 5))
	require.NoError(t, d.Run(context.Background()))
	assert.Equal(t, int64(5), value.Load())
}

func TestSource_DuplicateAdd(t *testing.T) {
	src := events.NewSource[int](nil)
	var calls int
	l := events.Sync(func(context.Context, int) error { calls++; return nil })

	src.AddListener(l)
	src.AddListener(l)
	assert.Len(t, src.Listeners(), 2)

	require.NoError(t, src.Dispatch(context.Background(), 1))
	assert.Equal(t, 2, calls)

	require.NoError(t, src.RemoveListener(l))
	require.NoError(t, src.RemoveListener(l))
	assert.ErrorIs(t, src.RemoveListener(l), domain.ErrListenerNotFound)
}

func TestHub(t *testing.T) {
	hub := events.NewHub()
	src := events.NewSource[string](nil)
	hub.Register("thermometer!temperature", src)

	var got []string
	l := events.Sync(func(_ context.Context, s string) error { got = append(got, s); return nil })

	assert.True(t, hub.Contains("thermometer!temperature"))
	require.NoError(t, hub.AddListener("thermometer!temperature", l))
	require.NoError(t, src.Dispatch(context.Background(), "hot"))
	assert.Equal(t, []string{"hot"}, got)

	var seen []any
	tap := events.Sync(func(_ context.Context, e any) error { seen = append(seen, e); return nil })
	require.NoError(t, hub.AddListener("thermometer!temperature", tap))
	require.NoError(t, src.Dispatch(context.Background(), "cold"))
	assert.Equal(t, []any{"cold"}, seen, "untyped listeners receive the event as is")
	assert.Len(t, src.Listeners(), 2)

	assert.Error(t, hub.AddListener("missing", l))

	require.NoError(t, hub.RemoveListener("thermometer!temperature", tap))
	assert.ErrorIs(t, hub.RemoveListener("thermometer!temperature", tap), domain.ErrListenerNotFound)
	require.NoError(t, hub.RemoveListener("thermometer!temperature", l))
	hub.Deregister("thermometer!temperature")
	assert.False(t, hub.Contains("thermometer!temperature"))
	assert.Empty(t, hub.Names())
}
