package component

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/onion/pkg/domain"
	"github.com/aretw0/onion/pkg/events"
)

// ValueChanged is dispatched by a property on every Set, even when the value is
// unchanged.
type ValueChanged[T any] struct {
	Sender   Property[T]
	Value    T
	Previous T
}

// Values returns the new and the former value, untyped.
func (e ValueChanged[T]) Values() (value, previous any) {
	return e.Value, e.Previous
}

// Property is an observable single value attached to a component.
type Property[T any] interface {
	Owner() any
	Value() T
	Set(ctx context.Context, v T) error

	AddListener(l *events.Listener[ValueChanged[T]])
	RemoveListener(l *events.Listener[ValueChanged[T]]) error
	Listen(fn func(context.Context, ValueChanged[T]) error) *events.Listener[ValueChanged[T]]
	ListenAsync(fn func(context.Context, ValueChanged[T]) error) *events.Listener[ValueChanged[T]]
	Listeners() []*events.Listener[ValueChanged[T]]

	// Events returns the source change events are dispatched through.
	Events() *events.Source[ValueChanged[T]]
}

// Value is the owning Property implementation.
type Value[T any] struct {
	*events.Source[ValueChanged[T]]

	owner any
	mu    sync.RWMutex
	value T
}

var _ Property[int] = (*Value[int])(nil)

// NewValue creates a property owned by owner, dispatching through d.
func NewValue[T any](owner any, initial T, d events.Dispatcher) *Value[T] {
	return &Value[T]{
		Source: events.NewSource[ValueChanged[T]](d),
		owner:  owner,
		value:  initial,
	}
}

func (p *Value[T]) Owner() any {
	return p.owner
}

func (p *Value[T]) Value() T {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.value
}

// Set stores v and dispatches a ValueChanged carrying the previous value.
func (p *Value[T]) Set(ctx context.Context, v T) error {
	p.mu.Lock()
	prev := p.value
	p.value = v
	p.mu.Unlock()

	return p.Dispatch(ctx, ValueChanged[T]{Sender: p, Value: v, Previous: prev})
}

func (p *Value[T]) Events() *events.Source[ValueChanged[T]] {
	return p.Source
}

func (p *Value[T]) String() string {
	var zero T
	return fmt.Sprintf("Property(%T=%v)", zero, p.Value())
}

// View is a read-only Property forwarding to a property owned elsewhere.
type View[T any] struct {
	owner any
	prop  Property[T]
}

var _ Property[int] = (*View[int])(nil)

// NewView wraps prop for owner. Writes through the view fail.
func NewView[T any](owner any, prop Property[T]) *View[T] {
	return &View[T]{owner: owner, prop: prop}
}

func (v *View[T]) Owner() any {
	return v.owner
}

func (v *View[T]) Value() T {
	return v.prop.Value()
}

// Set always fails with domain.ErrInvalidMutation.
func (v *View[T]) Set(context.Context, T) error {
	return fmt.Errorf("%w: property view of %T is read-only", domain.ErrInvalidMutation, v.prop.Owner())
}

func (v *View[T]) AddListener(l *events.Listener[ValueChanged[T]]) {
	v.prop.AddListener(l)
}

func (v *View[T]) RemoveListener(l *events.Listener[ValueChanged[T]]) error {
	return v.prop.RemoveListener(l)
}

func (v *View[T]) Listen(fn func(context.Context, ValueChanged[T]) error) *events.Listener[ValueChanged[T]] {
	return v.prop.Listen(fn)
}

func (v *View[T]) ListenAsync(fn func(context.Context, ValueChanged[T]) error) *events.Listener[ValueChanged[T]] {
	return v.prop.ListenAsync(fn)
}

func (v *View[T]) Listeners() []*events.Listener[ValueChanged[T]] {
	return v.prop.Listeners()
}

func (v *View[T]) Events() *events.Source[ValueChanged[T]] {
	return v.prop.Events()
}

// Unwrap returns the wrapped property.
func (v *View[T]) Unwrap() Property[T] {
	return v.prop
}
