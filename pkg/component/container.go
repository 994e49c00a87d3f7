package component

import (
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/onion/pkg/domain"
)

// Container holds the live components of an application by name, in the order
// they were added.
type Container struct {
	mu    sync.RWMutex
	byKey map[string]any
	order []string
}

// NewContainer creates an empty container.
func NewContainer() *Container {
	return &Container{byKey: make(map[string]any)}
}

// Add stores instance under name. A taken name fails without touching the container.
func (c *Container) Add(name string, instance any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.byKey[name]; ok {
		return fmt.Errorf("%w: %q", domain.ErrDuplicateComponentName, name)
	}
	c.byKey[name] = instance
	c.order = append(c.order, name)
	return nil
}

// Get returns the component called name.
func (c *Container) Get(name string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.byKey[name]
	return v, ok
}

// Contains reports whether a component called name exists.
func (c *Container) Contains(name string) bool {
	_, ok := c.Get(name)
	return ok
}

// Remove deletes the component called name and reports whether it existed.
func (c *Container) Remove(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.byKey[name]; !ok {
		return false
	}
	delete(c.byKey, name)
	c.order = slices.DeleteFunc(c.order, func(n string) bool { return n == name })
	return true
}

// Names returns the component names in insertion order.
func (c *Container) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.order)
}

// Len returns the number of components.
func (c *Container) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// Each calls fn for every component in insertion order until fn returns false.
func (c *Container) Each(fn func(name string, instance any) bool) {
	c.mu.RLock()
	names := slices.Clone(c.order)
	c.mu.RUnlock()

	for _, name := range names {
		inst, ok := c.Get(name)
		if !ok {
			continue
		}
		if !fn(name, inst) {
			return
		}
	}
}

// Lookup returns the component called name as a T.
func Lookup[T any](c *Container, name string) (T, error) {
	var zero T
	v, ok := c.Get(name)
	if !ok {
		return zero, fmt.Errorf("component %q not found", name)
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("component %q is %T, not %T", name, v, zero)
	}
	return t, nil
}
