package onion

import (
	"log/slog"

	"github.com/aretw0/onion/pkg/config"
	"github.com/aretw0/onion/pkg/domain"
	"github.com/aretw0/onion/pkg/events"
	"github.com/aretw0/onion/pkg/observability"
	"github.com/aretw0/onion/pkg/registry"
)

// Option defines a functional option for configuring the Application.
type Option func(*Application)

// WithLogger sets a custom structured logger for the application and
// everything it builds.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Application) {
		a.logger = logger
	}
}

// WithRegistry sets the classes declarations are resolved against.
func WithRegistry(r *registry.Registry) Option {
	return func(a *Application) {
		a.registry = r
	}
}

// WithLifecycleHooks registers observability hooks on the factory.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *Application) {
		a.hooks = a.hooks.Merge(hooks)
	}
}

// WithMetrics records dispatcher and build metrics in m.
func WithMetrics(m *observability.Metrics) Option {
	return func(a *Application) {
		a.metrics = m
	}
}

// WithDispatcher injects the dispatcher shared by every component.
func WithDispatcher(d *events.DefaultDispatcher) Option {
	return func(a *Application) {
		a.dispatcher = d
	}
}

// WithConfigFactory replaces the backends used for the configurations
// section of loaded documents.
func WithConfigFactory(f *config.Factory) Option {
	return func(a *Application) {
		a.configs = f
	}
}

// WithConfig adds a provider consulted after the document configurations.
func WithConfig(p config.Provider) Option {
	return func(a *Application) {
		a.providers = append(a.providers, p)
	}
}

// WithConfigSet registers values for "memory" configurations entries whose
// set is name.
func WithConfigSet(name string, values map[string]any) Option {
	return func(a *Application) {
		a.sets = append(a.sets, configSet{name: name, values: values})
	}
}
