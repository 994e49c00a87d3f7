package component

import (
	"context"
	"sync"

	"github.com/aretw0/onion/pkg/domain"
)

// Builder is a build scope over a Factory: components added through it are
// initialized by Commit or dropped by Abort.
type Builder struct {
	factory *Factory

	mu     sync.Mutex
	closed bool
}

// Begin opens a build scope.
func (f *Factory) Begin() *Builder {
	return &Builder{factory: f}
}

// Add queues a component. It fails once the builder is closed.
func (b *Builder) Add(ctx context.Context, name string, class *Class, args []any, kwargs, props map[string]any) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, domain.ErrBuilderClosed
	}
	return b.factory.Add(ctx, name, class, args, kwargs, props)
}

// Commit initializes the queued components. It must be called exactly once.
func (b *Builder) Commit(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return domain.ErrBuilderClosed
	}
	b.closed = true
	b.mu.Unlock()

	return b.factory.Initialize(ctx)
}

// Abort drops the queued components. It is a no-op once the builder is closed.
func (b *Builder) Abort() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	b.factory.Discard()
}

// Scope runs fn inside a build scope, committing when fn succeeds and aborting
// otherwise.
func (f *Factory) Scope(ctx context.Context, fn func(*Builder) error) error {
	b := f.Begin()
	if err := fn(b); err != nil {
		b.Abort()
		return err
	}
	return b.Commit(ctx)
}
