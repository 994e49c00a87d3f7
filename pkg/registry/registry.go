package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/onion/pkg/component"
	"github.com/aretw0/onion/pkg/domain"
)

// Registry maps dotted class names, as written in declarations, to component
// descriptors.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]*component.Class
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		classes: make(map[string]*component.Class),
	}
}

// Register adds classes under their own names.
// If a class with the same name exists, it is overwritten.
func (r *Registry) Register(classes ...*component.Class) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range classes {
		r.classes[c.Name()] = c
	}
}

// RegisterAs adds a class under an alias.
func (r *Registry) RegisterAs(name string, c *component.Class) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classes[name] = c
}

// Lookup returns the class registered under name.
func (r *Registry) Lookup(name string) (*component.Class, error) {
	r.mu.RLock()
	c, ok := r.classes[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownClass, name)
	}
	return c, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.classes))
	for name := range r.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
