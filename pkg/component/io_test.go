package component_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/onion/pkg/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slowReceiver struct {
	delay time.Duration
	err   error
	got   atomic.Int64
}

func (r *slowReceiver) ReceiveInput(_ context.Context, v int) error {
	time.Sleep(r.delay)
	r.got.Store(int64(v))
	return r.err
}

func TestOutput_SendWaitsForAll(t *testing.T) {
	ctx := context.Background()
	out := component.NewOutput[int]("sender")
	a := &slowReceiver{delay: 20 * time.Millisecond}
	b := &slowReceiver{}
	in := component.NewInput(nil, 0, nil)

	out.Connect(a)
	out.Connect(b)
	out.Connect(in)
	out.Connect(a)
	assert.Len(t, out.Destinations(), 3, "connecting twice is a no-op")

	require.NoError(t, out.Send(ctx, 7))
	assert.Equal(t, int64(7), a.got.Load(), "send returns after the slowest destination")
	assert.Equal(t, int64(7), b.got.Load())
	assert.Equal(t, 7, in.Value())
}

func TestOutput_SendAttemptsEveryDestination(t *testing.T) {
	ctx := context.Background()
	rejected := errors.New("rejected")
	out := component.NewOutput[int](nil)
	failing := &slowReceiver{err: rejected}
	slow := &slowReceiver{delay: 10 * time.Millisecond}
	out.Connect(failing)
	out.Connect(slow)

	err := out.Send(ctx, 3)
	assert.ErrorIs(t, err, rejected)
	assert.Equal(t, int64(3), slow.got.Load())
}

func TestOutput_Disconnect(t *testing.T) {
	out := component.NewOutput[int](nil)
	r := &slowReceiver{}
	out.Connect(r)

	require.NoError(t, out.Disconnect(r))
	assert.Error(t, out.Disconnect(r))
	assert.NoError(t, out.Send(context.Background(), 1))
	assert.Equal(t, int64(0), r.got.Load())
}
