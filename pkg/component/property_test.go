package component_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/aretw0/onion/pkg/component"
	"github.com/aretw0/onion/pkg/domain"
	"github.com/aretw0/onion/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_SetAlwaysDispatches(t *testing.T) {
	ctx := context.Background()
	p := component.NewValue[float64]("owner", 5.0, nil)

	var got []component.ValueChanged[float64]
	p.Listen(func(_ context.Context, e component.ValueChanged[float64]) error {
		got = append(got, e)
		return nil
	})

	require.NoError(t, p.Set(ctx, 5.0))
	require.NoError(t, p.Set(ctx, 7.5))

	require.Len(t, got, 2, "an unchanged value still dispatches")
	assert.Equal(t, 5.0, got[0].Value)
	assert.Equal(t, 5.0, got[0].Previous)
	assert.Equal(t, 7.5, got[1].Value)
	assert.Equal(t, 5.0, got[1].Previous)
	assert.Same(t, p, got[1].Sender)
	assert.Equal(t, 7.5, p.Value())
	assert.Equal(t, "owner", p.Owner())
}

func TestValue_AsyncListenersDrainedByDispatcher(t *testing.T) {
	ctx := context.Background()
	d := events.NewDispatcher()
	p := component.NewValue(nil, 0, d)

	var sum atomic.Int64
	p.ListenAsync(func(_ context.Context, e component.ValueChanged[int]) error {
		sum.Add(int64(e.Value))
		return nil
	})

	for i := 1; i <= 4; i++ {
		require.NoError(t, p.Set(ctx, i))
	}
	require.NoError(t, d.Run(ctx))
	assert.Equal(t, int64(10), sum.Load())
}

func TestView_ReadOnly(t *testing.T) {
	ctx := context.Background()
	p := component.NewValue("thermometer", 5.0, nil)
	v := component.NewView[float64]("checker", p)

	var calls int
	v.Listen(func(context.Context, component.ValueChanged[float64]) error {
		calls++
		return nil
	})

	require.NoError(t, p.Set(ctx, 12.0))
	assert.Equal(t, 12.0, v.Value())
	assert.Equal(t, 1, calls, "listeners registered on a view live on the wrapped property")
	assert.Equal(t, "checker", v.Owner())
	assert.Same(t, p, v.Unwrap())

	err := v.Set(ctx, 1.0)
	assert.ErrorIs(t, err, domain.ErrInvalidMutation)
	assert.Equal(t, 12.0, p.Value())
	assert.Equal(t, 1, calls, "a rejected write dispatches nothing")
}

func TestValue_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	p := component.NewValue(nil, 0, nil)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = p.Set(ctx, i)
		}()
		go func() {
			defer wg.Done()
			_ = p.Value()
		}()
	}
	wg.Wait()
}

func TestInput_Validate(t *testing.T) {
	ctx := context.Background()
	in := component.NewInput[int](nil, 0, nil)
	tooBig := errors.New("too big")
	in.Validate(func(v int) error {
		if v > 10 {
			return tooBig
		}
		return nil
	})

	require.NoError(t, in.ReceiveInput(ctx, 3))
	assert.ErrorIs(t, in.ReceiveInput(ctx, 11), tooBig)
	assert.Equal(t, 3, in.Value())
}

func TestInput_Follow(t *testing.T) {
	ctx := context.Background()
	src := component.NewValue(nil, 1.0, nil)
	in := component.NewInput(nil, src.Value(), nil)
	l := in.Follow(src)

	require.NoError(t, src.Set(ctx, 4.0))
	assert.Equal(t, 4.0, in.Value())

	require.NoError(t, src.RemoveListener(l))
	require.NoError(t, src.Set(ctx, 9.0))
	assert.Equal(t, 4.0, in.Value())
}
