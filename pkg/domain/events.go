package domain

import (
	"context"
	"time"
)

// ComponentEvent describes a single component during a build.
type ComponentEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Name      string    `json:"name"`
	Class     string    `json:"class"`
}

// BuildEvent describes the outcome of an initialization pass.
type BuildEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Pending   []string  `json:"pending"`
	Err       error     `json:"-"`
}

// LifecycleHooks defines callbacks for build observability.
// Nil callbacks are skipped.
type LifecycleHooks struct {
	OnComponentAdded       func(context.Context, *ComponentEvent)
	OnComponentInitialized func(context.Context, *ComponentEvent)
	OnBuildFailed          func(context.Context, *BuildEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnComponentAdded:       chain(h.OnComponentAdded, other.OnComponentAdded),
		OnComponentInitialized: chain(h.OnComponentInitialized, other.OnComponentInitialized),
		OnBuildFailed:          chain(h.OnBuildFailed, other.OnBuildFailed),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
