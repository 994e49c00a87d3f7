package component

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/onion/pkg/events"
	"golang.org/x/sync/errgroup"
)

// Receiver accepts values pushed by an Output.
type Receiver[T any] interface {
	ReceiveInput(ctx context.Context, v T) error
}

// Input is a property that other components push values into.
type Input[T any] struct {
	prop *Value[T]

	mu     sync.RWMutex
	accept func(T) error
}

var (
	_ Property[int] = (*Input[int])(nil)
	_ Receiver[int] = (*Input[int])(nil)
)

// NewInput creates an input owned by owner.
func NewInput[T any](owner any, initial T, d events.Dispatcher) *Input[T] {
	return &Input[T]{prop: NewValue(owner, initial, d)}
}

// Validate installs a check run on every received value before it is stored.
func (in *Input[T]) Validate(fn func(T) error) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.accept = fn
}

// ReceiveInput stores v unless the validator rejects it.
func (in *Input[T]) ReceiveInput(ctx context.Context, v T) error {
	in.mu.RLock()
	accept := in.accept
	in.mu.RUnlock()

	if accept != nil {
		if err := accept(v); err != nil {
			return err
		}
	}
	return in.prop.Set(ctx, v)
}

// Follow keeps the input in sync with src and returns the forwarding listener.
func (in *Input[T]) Follow(src Property[T]) *events.Listener[ValueChanged[T]] {
	return src.Listen(func(ctx context.Context, e ValueChanged[T]) error {
		return in.ReceiveInput(ctx, e.Value)
	})
}

func (in *Input[T]) Owner() any {
	return in.prop.Owner()
}

func (in *Input[T]) Value() T {
	return in.prop.Value()
}

// Set bypasses the validator.
func (in *Input[T]) Set(ctx context.Context, v T) error {
	return in.prop.Set(ctx, v)
}

func (in *Input[T]) AddListener(l *events.Listener[ValueChanged[T]]) {
	in.prop.AddListener(l)
}

func (in *Input[T]) RemoveListener(l *events.Listener[ValueChanged[T]]) error {
	return in.prop.RemoveListener(l)
}

func (in *Input[T]) Listen(fn func(context.Context, ValueChanged[T]) error) *events.Listener[ValueChanged[T]] {
	return in.prop.Listen(fn)
}

func (in *Input[T]) ListenAsync(fn func(context.Context, ValueChanged[T]) error) *events.Listener[ValueChanged[T]] {
	return in.prop.ListenAsync(fn)
}

func (in *Input[T]) Listeners() []*events.Listener[ValueChanged[T]] {
	return in.prop.Listeners()
}

func (in *Input[T]) Events() *events.Source[ValueChanged[T]] {
	return in.prop.Events()
}

// Output pushes values to a set of receivers.
type Output[T any] struct {
	owner any

	mu    sync.RWMutex
	dests []Receiver[T]
}

// NewOutput creates an output without destinations.
func NewOutput[T any](owner any) *Output[T] {
	return &Output[T]{owner: owner}
}

func (o *Output[T]) Owner() any {
	return o.owner
}

// Connect adds r to the destinations. Connecting twice is a no-op.
func (o *Output[T]) Connect(r Receiver[T]) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !slices.Contains(o.dests, r) {
		o.dests = append(o.dests, r)
	}
}

// Disconnect removes r from the destinations.
func (o *Output[T]) Disconnect(r Receiver[T]) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	i := slices.Index(o.dests, r)
	if i < 0 {
		return fmt.Errorf("output of %T: receiver not connected", o.owner)
	}
	o.dests = slices.Delete(o.dests, i, i+1)
	return nil
}

// Destinations returns a snapshot of the connected receivers.
func (o *Output[T]) Destinations() []Receiver[T] {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return slices.Clone(o.dests)
}

// Send delivers v to every destination concurrently and waits for all of them.
// Every destination is attempted; the first failure is returned.
func (o *Output[T]) Send(ctx context.Context, v T) error {
	var g errgroup.Group
	for _, dest := range o.Destinations() {
		g.Go(func() error {
			return dest.ReceiveInput(ctx, v)
		})
	}
	return g.Wait()
}
