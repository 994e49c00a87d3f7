package onion

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"sync"

	"github.com/aretw0/onion/internal/logging"
	"github.com/aretw0/onion/pkg/adapters/env"
	"github.com/aretw0/onion/pkg/adapters/file"
	"github.com/aretw0/onion/pkg/adapters/memory"
	"github.com/aretw0/onion/pkg/adapters/redis"
	"github.com/aretw0/onion/pkg/component"
	"github.com/aretw0/onion/pkg/config"
	"github.com/aretw0/onion/pkg/declaration"
	"github.com/aretw0/onion/pkg/domain"
	"github.com/aretw0/onion/pkg/events"
	"github.com/aretw0/onion/pkg/observability"
	"github.com/aretw0/onion/pkg/registry"
	"github.com/aretw0/onion/pkg/schema"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// Application owns the components built from declarations, the dispatcher
// they share and the hub their fields are registered in.
type Application struct {
	logger     *slog.Logger
	registry   *registry.Registry
	hooks      domain.LifecycleHooks
	metrics    *observability.Metrics
	dispatcher *events.DefaultDispatcher
	configs    *config.Factory
	providers  []config.Provider
	sets       []configSet

	container *component.Container
	hub       *events.Hub
	factory   *component.Factory

	mu      sync.Mutex
	stopped bool
}

type configSet struct {
	name   string
	values map[string]any
}

// New creates an empty application.
// The application, its container, its dispatcher and its hub can be injected
// into any component.
func New(opts ...Option) *Application {
	a := &Application{}
	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = logging.NewNop()
	}
	if a.registry == nil {
		a.registry = registry.NewRegistry()
	}
	mem := memory.New()
	for _, set := range a.sets {
		mem.Put(set.name, set.values)
	}
	if a.configs == nil {
		a.configs = config.NewFactory(
			config.WithLogger(a.logger),
			config.WithResolvers(file.New(), env.New(), redis.New(), mem),
		)
	} else if len(a.sets) > 0 {
		a.configs.Register(mem)
	}
	if a.dispatcher == nil {
		dopts := []events.Option{events.WithLogger(a.logger)}
		if a.metrics != nil {
			dopts = append(dopts, events.WithRecorder(a.metrics))
		}
		a.dispatcher = events.NewDispatcher(dopts...)
	}

	hooks := a.hooks
	if a.metrics != nil {
		hooks = hooks.Merge(a.metrics.Hooks())
	}

	a.container = component.NewContainer()
	a.hub = events.NewHub()
	a.factory = component.NewFactory(a.dispatcher,
		component.WithLogger(a.logger),
		component.WithHooks(hooks),
		component.WithContainer(a.container),
		component.WithHub(a.hub),
	)
	a.factory.Provide(a)
	a.factory.Provide(a.container)
	a.factory.Provide(a.hub)
	a.factory.Provide(a.dispatcher, reflect.TypeFor[events.Dispatcher]())
	return a
}

// Logger returns the application logger.
func (a *Application) Logger() *slog.Logger {
	return a.logger
}

// Registry returns the classes declarations are resolved against.
func (a *Application) Registry() *registry.Registry {
	return a.registry
}

// Components returns the container of built components.
func (a *Application) Components() *component.Container {
	return a.container
}

// Dispatcher returns the dispatcher shared by every component.
func (a *Application) Dispatcher() *events.DefaultDispatcher {
	return a.dispatcher
}

// Hub returns the hub owned fields are registered in, as "<component>!<field>".
func (a *Application) Hub() *events.Hub {
	return a.hub
}

// Factory returns the component factory, for programmatic assembly.
func (a *Application) Factory() *component.Factory {
	return a.factory
}

// Prepare decodes and processes a YAML declaration without building it.
// The configurations section is loaded first so $config values can be resolved.
func (a *Application) Prepare(ctx context.Context, data []byte) (*declaration.Processor, error) {
	doc, err := schema.ParseYAML(data)
	if err != nil {
		return nil, err
	}
	configurations, err := doc.Configurations()
	if err != nil {
		return nil, err
	}
	loaded, err := a.configs.Build(ctx, configurations)
	if err != nil {
		return nil, fmt.Errorf("load configurations: %w", err)
	}

	provider := append(config.Chain{loaded}, a.providers...)
	decl, err := schema.Decode(doc, a.registry, schema.WithConfig(provider))
	if err != nil {
		return nil, err
	}
	return declaration.New(decl, declaration.WithLogger(a.logger))
}

// Build processes decl and builds its components. Either every component is
// built or none is.
func (a *Application) Build(ctx context.Context, decl *schema.Declaration) error {
	p, err := declaration.New(decl, declaration.WithLogger(a.logger))
	if err != nil {
		return err
	}
	return a.BuildProcessed(ctx, p)
}

// BuildProcessed builds the components of an already processed declaration.
func (a *Application) BuildProcessed(ctx context.Context, p *declaration.Processor) error {
	err := a.factory.Scope(ctx, func(b *component.Builder) error {
		return p.CreateWith(ctx, b)
	})
	if err != nil {
		return err
	}
	a.logger.Info("declaration built",
		"name", p.Declaration().Name,
		"components", len(p.Components()))
	return nil
}

// Load decodes, processes and builds a YAML declaration.
func (a *Application) Load(ctx context.Context, data []byte) error {
	p, err := a.Prepare(ctx, data)
	if err != nil {
		return err
	}
	return a.BuildProcessed(ctx, p)
}

// LoadFile is Load for a file.
func (a *Application) LoadFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read declaration: %w", err)
	}
	if err := a.Load(ctx, data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Run sets up every component, then runs the runnable components next to the
// dispatcher until all of them return. Pending asynchronous listeners are
// drained before Run returns.
func (a *Application) Run(ctx context.Context) error {
	if err := a.setup(ctx); err != nil {
		return err
	}

	var runnables []component.Runnable
	a.container.Each(func(_ string, inst any) bool {
		if r, ok := inst.(component.Runnable); ok {
			runnables = append(runnables, r)
		}
		return true
	})
	a.logger.Info("application running", "components", a.container.Len(), "runnables", len(runnables))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.dispatcher.Run(gctx)
	})
	for _, r := range runnables {
		g.Go(func() error {
			return r.Run(gctx)
		})
	}
	err := g.Wait()

	if derr := a.dispatcher.Run(ctx); derr != nil {
		err = multierr.Append(err, derr)
	}
	a.logger.Info("application finished", "error", err)
	return err
}

func (a *Application) setup(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	a.container.Each(func(name string, inst any) bool {
		s, ok := inst.(component.Setup)
		if !ok {
			return true
		}
		g.Go(func() error {
			if err := s.Setup(gctx); err != nil {
				return fmt.Errorf("setup %q: %w", name, err)
			}
			return nil
		})
		return true
	})
	return g.Wait()
}

// Stop asks every runnable component to return and tears down the
// dispatcher. The errors of every Stop call are combined.
func (a *Application) Stop(ctx context.Context) error {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return nil
	}
	a.stopped = true
	a.mu.Unlock()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs error
	)
	a.container.Each(func(name string, inst any) bool {
		r, ok := inst.(component.Runnable)
		if !ok {
			return true
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := r.Stop(ctx); err != nil {
				mu.Lock()
				errs = multierr.Append(errs, fmt.Errorf("stop %q: %w", name, err))
				mu.Unlock()
			}
		}()
		return true
	})
	wg.Wait()

	a.dispatcher.Close()
	a.logger.Info("application stopped", "error", errs)
	return errs
}
