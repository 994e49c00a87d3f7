package events

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/onion/pkg/domain"
)

// Registrable is implemented by sources whose listeners can be managed without
// knowing their event type.
type Registrable interface {
	AddInvocation(Invocation) error
	RemoveInvocation(Invocation) error
}

// AddInvocation adds inv. Invocations other than *Listener[E] are wrapped
// and receive every event as is; they must be comparable.
func (s *Source[E]) AddInvocation(inv Invocation) error {
	if l, ok := inv.(*Listener[E]); ok {
		s.AddListener(l)
		return nil
	}
	l := &Listener[E]{
		fn:    func(ctx context.Context, e E) error { return inv.Invoke(ctx, e) },
		async: inv.IsAsync(),
	}
	s.mu.Lock()
	if s.erased == nil {
		s.erased = make(map[Invocation][]*Listener[E])
	}
	s.erased[inv] = append(s.erased[inv], l)
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
	return nil
}

// RemoveInvocation removes the first registration of inv.
func (s *Source[E]) RemoveInvocation(inv Invocation) error {
	if l, ok := inv.(*Listener[E]); ok {
		return s.RemoveListener(l)
	}
	s.mu.Lock()
	wrapped := s.erased[inv]
	if len(wrapped) == 0 {
		s.mu.Unlock()
		return domain.ErrListenerNotFound
	}
	l := wrapped[0]
	if len(wrapped) == 1 {
		delete(s.erased, inv)
	} else {
		s.erased[inv] = wrapped[1:]
	}
	s.mu.Unlock()
	return s.RemoveListener(l)
}

// Hub indexes sources by name so listeners can be attached by name.
type Hub struct {
	mu      sync.RWMutex
	sources map[string]Registrable
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{sources: make(map[string]Registrable)}
}

// Register stores src under name, replacing any previous source.
func (h *Hub) Register(name string, src Registrable) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sources[name] = src
}

// Deregister removes the source stored under name.
func (h *Hub) Deregister(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sources, name)
}

// Contains reports whether a source is registered under name.
func (h *Hub) Contains(name string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.sources[name]
	return ok
}

// Names returns the registered names in sorted order.
func (h *Hub) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.sources))
	for name := range h.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AddListener attaches inv to the source registered under name.
func (h *Hub) AddListener(name string, inv Invocation) error {
	src, err := h.lookup(name)
	if err != nil {
		return err
	}
	return src.AddInvocation(inv)
}

// RemoveListener detaches inv from the source registered under name.
func (h *Hub) RemoveListener(name string, inv Invocation) error {
	src, err := h.lookup(name)
	if err != nil {
		return err
	}
	return src.RemoveInvocation(inv)
}

func (h *Hub) lookup(name string) (Registrable, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	src, ok := h.sources[name]
	if !ok {
		return nil, fmt.Errorf("no event source named %q", name)
	}
	return src, nil
}
