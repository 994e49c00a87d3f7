package component

import "context"

// Setup is implemented by components needing preparation before they run.
type Setup interface {
	Setup(ctx context.Context) error
}

// Runnable is implemented by components with a main loop. Stop is a request:
// Run is expected to return soon after.
type Runnable interface {
	Run(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Named is implemented by components that know their own name.
type Named interface {
	Name() string
}

type nameable interface {
	setName(string)
}

// Base can be embedded by components to receive their name from the factory.
type Base struct {
	name string
}

// Name returns the name the component was added under.
func (b *Base) Name() string {
	return b.name
}

func (b *Base) setName(name string) {
	b.name = name
}
