package events

import (
	"context"
	"slices"
	"sync"

	"github.com/aretw0/onion/pkg/domain"
)

// Source owns an ordered list of listeners for events of type E.
type Source[E any] struct {
	dispatcher Dispatcher

	mu        sync.RWMutex
	listeners []*Listener[E]
	erased    map[Invocation][]*Listener[E]
}

// NewSource creates a source forwarding to d.
// A nil d gets a private DefaultDispatcher.
func NewSource[E any](d Dispatcher) *Source[E] {
	if d == nil {
		d = NewDispatcher()
	}
	return &Source[E]{dispatcher: d}
}

// Dispatcher returns the dispatcher the source forwards to.
func (s *Source[E]) Dispatcher() Dispatcher {
	return s.dispatcher
}

// AddListener appends l. Adding the same handle twice registers it twice.
func (s *Source[E]) AddListener(l *Listener[E]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// RemoveListener removes the first registration of l.
func (s *Source[E]) RemoveListener(l *Listener[E]) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.Index(s.listeners, l)
	if i < 0 {
		return domain.ErrListenerNotFound
	}
	s.listeners = slices.Delete(s.listeners, i, i+1)
	return nil
}

// Listen registers fn as a synchronous listener and returns its handle.
func (s *Source[E]) Listen(fn func(context.Context, E) error) *Listener[E] {
	l := Sync(fn)
	s.AddListener(l)
	return l
}

// ListenAsync registers fn as an asynchronous listener and returns its handle.
func (s *Source[E]) ListenAsync(fn func(context.Context, E) error) *Listener[E] {
	l := Async(fn)
	s.AddListener(l)
	return l
}

// Listeners returns a snapshot of the registered listeners.
func (s *Source[E]) Listeners() []*Listener[E] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.listeners)
}

// Dispatch hands e and the current listeners to the dispatcher.
func (s *Source[E]) Dispatch(ctx context.Context, e E) error {
	s.mu.RLock()
	invocations := make([]Invocation, len(s.listeners))
	for i, l := range s.listeners {
		invocations[i] = l
	}
	s.mu.RUnlock()

	return s.dispatcher.Dispatch(ctx, e, invocations)
}
