package events

import (
	"context"
	"fmt"
	"reflect"
)

// Invocation is a type-erased listener handed to a Dispatcher.
type Invocation interface {
	Invoke(ctx context.Context, event any) error
	IsAsync() bool
}

// Listener is a handle to a callback receiving events of type E.
// Handles are compared by identity when removed from a Source.
type Listener[E any] struct {
	fn    func(context.Context, E) error
	async bool
}

// Sync wraps fn as a listener run inline by the dispatcher.
func Sync[E any](fn func(context.Context, E) error) *Listener[E] {
	return &Listener[E]{fn: fn}
}

// Async wraps fn as a listener run as an independent tracked task.
func Async[E any](fn func(context.Context, E) error) *Listener[E] {
	return &Listener[E]{fn: fn, async: true}
}

// Invoke calls the listener. It fails if event is not an E.
// A nil event is delivered as the zero E when E is an interface type.
func (l *Listener[E]) Invoke(ctx context.Context, event any) error {
	e, ok := event.(E)
	if !ok {
		if event == nil && reflect.TypeFor[E]().Kind() == reflect.Interface {
			return l.fn(ctx, e)
		}
		return fmt.Errorf("listener expects %v, got %T", reflect.TypeFor[E](), event)
	}
	return l.fn(ctx, e)
}

// IsAsync reports whether the listener runs as a tracked task.
func (l *Listener[E]) IsAsync() bool {
	return l.async
}
