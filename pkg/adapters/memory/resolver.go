package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/aretw0/onion/pkg/config"
)

// Options are the keys accepted by a "memory" configurations entry.
type Options struct {
	// Set names the value set to load.
	Set string `mapstructure:"set"`
}

// Resolver serves value sets registered in memory.
// Safe for concurrent use.
type Resolver struct {
	sets map[string]map[string]any
	mu   sync.RWMutex
}

var _ config.Resolver = (*Resolver)(nil)

// New creates an empty in-memory resolver.
func New() *Resolver {
	return &Resolver{
		sets: make(map[string]map[string]any),
	}
}

// Put registers values under name, replacing any previous set.
func (r *Resolver) Put(name string, values map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sets[name] = maps.Clone(values)
}

// Delete removes the set called name.
func (r *Resolver) Delete(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sets, name)
}

func (r *Resolver) Name() string {
	return "memory"
}

func (r *Resolver) Load(_ context.Context, options map[string]any) (map[string]any, error) {
	var opts Options
	if err := config.DecodeOptions(options, &opts); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	values, ok := r.sets[opts.Set]
	if !ok {
		return nil, fmt.Errorf("%w: memory set %q", config.ErrNotFound, opts.Set)
	}
	// Copy on read so callers can't mutate the registered set
	return maps.Clone(values), nil
}
