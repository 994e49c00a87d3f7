package component

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/onion/pkg/domain"
	"github.com/aretw0/onion/pkg/events"
)

// Adder is implemented by Factory and Builder.
type Adder interface {
	Add(ctx context.Context, name string, class *Class, args []any, kwargs, props map[string]any) (any, error)
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithLogger sets the factory logger.
func WithLogger(logger *slog.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithHooks sets the lifecycle callbacks fired while building.
func WithHooks(hooks domain.LifecycleHooks) FactoryOption {
	return func(f *Factory) {
		f.hooks = hooks
	}
}

// WithContainer makes Initialize register every initialized component into c.
func WithContainer(c *Container) FactoryOption {
	return func(f *Factory) {
		f.container = c
	}
}

// WithHub sets the hub owned properties and events are registered in, as
// "<component>!<field>".
func WithHub(h *events.Hub) FactoryOption {
	return func(f *Factory) {
		f.hub = h
	}
}

type entry struct {
	id       int
	name     string
	instance any
}

func (e entry) label() string {
	if e.name != "" {
		return e.name
	}
	return fmt.Sprintf("%T", e.instance)
}

type pendingComponent struct {
	id       int
	name     string
	class    *Class
	instance any
	args     Args
	sources  []string
	undo     []func()
}

// Factory allocates components, injects their fields and initializes them in
// dependency order.
type Factory struct {
	dispatcher events.Dispatcher
	hub        *events.Hub
	container  *Container
	logger     *slog.Logger
	hooks      domain.LifecycleHooks

	mu      sync.Mutex
	seq     int
	index   map[reflect.Type][]entry
	pending []*pendingComponent
}

// NewFactory creates a factory whose reactive fields dispatch through d.
// A nil d gets a private DefaultDispatcher.
func NewFactory(d events.Dispatcher, opts ...FactoryOption) *Factory {
	if d == nil {
		d = events.NewDispatcher()
	}
	f := &Factory{
		dispatcher: d,
		hub:        events.NewHub(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		index:      make(map[reflect.Type][]entry),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Dispatcher returns the dispatcher shared by every injected field.
func (f *Factory) Dispatcher() events.Dispatcher {
	return f.dispatcher
}

// Hub returns the hub owned fields are registered in.
func (f *Factory) Hub() *events.Hub {
	return f.hub
}

// Provide registers a ready instance available for injection under its own
// type and under types. It panics if v cannot be assigned to one of types.
func (f *Factory) Provide(v any, types ...reflect.Type) {
	t := reflect.TypeOf(v)
	for _, it := range types {
		if !t.AssignableTo(it) {
			panic(fmt.Sprintf("component: %v cannot be provided as %v", t, it))
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	e := entry{id: f.seq, instance: v}
	f.index[t] = append(f.index[t], e)
	for _, it := range types {
		if it != t {
			f.index[it] = append(f.index[it], e)
		}
	}
}

// Add allocates a component of class, injects its reactive fields from props
// and queues it for initialization. The constructor does not run yet.
func (f *Factory) Add(ctx context.Context, name string, class *Class, args []any, kwargs, props map[string]any) (any, error) {
	if class == nil {
		return nil, fmt.Errorf("component %q: %w", name, domain.ErrUnknownClass)
	}

	f.mu.Lock()
	pc, err := f.add(name, class, args, kwargs, props)
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}

	f.logger.Debug("component added", "component", name, "class", class.Name())
	if f.hooks.OnComponentAdded != nil {
		f.hooks.OnComponentAdded(ctx, &domain.ComponentEvent{Timestamp: time.Now(), Name: name, Class: class.Name()})
	}
	return pc.instance, nil
}

func (f *Factory) add(name string, class *Class, args []any, kwargs, props map[string]any) (*pendingComponent, error) {
	taken := f.container != nil && f.container.Contains(name)
	taken = taken || slices.ContainsFunc(f.pending, func(p *pendingComponent) bool { return p.name == name })
	if taken {
		return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateComponentName, name)
	}

	path := domain.Path{name, "props"}
	for _, key := range slices.Sorted(maps.Keys(props)) {
		if _, ok := class.Field(key); !ok {
			return nil, domain.NewLocationError(path.Key(key), domain.ErrUnknownProperty, "class %s has no field %q", class.Name(), key)
		}
	}

	inst := class.New()
	if n, ok := inst.(nameable); ok {
		n.setName(name)
	}

	var undo []func()
	env := injection{component: name, dispatcher: f.dispatcher, undo: &undo}
	owned := make(map[string]events.Registrable)
	for _, field := range class.Fields() {
		value, present := props[field.Name]
		src, err := field.inject(&field, inst, value, present, env)
		if err != nil {
			for _, fn := range undo {
				fn()
			}
			return nil, domain.NewLocationError(path.Key(field.Name), err, "")
		}
		if src != nil {
			owned[name+"!"+field.Name] = src
		}
	}

	f.seq++
	pc := &pendingComponent{
		id:       f.seq,
		name:     name,
		class:    class,
		instance: inst,
		args:     Args{Positional: slices.Clone(args), Named: maps.Clone(kwargs)},
		undo:     undo,
	}
	if pc.args.Named == nil {
		pc.args.Named = make(map[string]any)
	}
	for _, key := range slices.Sorted(maps.Keys(owned)) {
		f.hub.Register(key, owned[key])
		pc.sources = append(pc.sources, key)
	}

	e := entry{id: pc.id, name: name, instance: inst}
	for _, t := range class.Provides() {
		f.index[t] = append(f.index[t], e)
	}
	f.pending = append(f.pending, pc)
	return pc, nil
}

// Pending returns the names of the components waiting for initialization.
func (f *Factory) Pending() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, len(f.pending))
	for i, p := range f.pending {
		names[i] = p.name
	}
	return names
}

// Initialize resolves the injected parameters of every pending component and
// runs the constructors in dependency order, registering each component into
// the container right after its constructor returns.
//
// Initialization is all or nothing: on failure the components of this pass
// are removed from the container and from the injection index.
func (f *Factory) Initialize(ctx context.Context) error {
	f.mu.Lock()
	batch := f.pending
	f.pending = nil
	f.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	order, err := f.plan(batch)
	if err != nil {
		f.rollback(batch, nil)
		f.failed(ctx, batch, err)
		return err
	}

	var done []*pendingComponent
	for _, pc := range order {
		if err := ctx.Err(); err != nil {
			f.rollback(batch, done)
			f.failed(ctx, batch, err)
			return err
		}
		if err := pc.class.construct(pc.instance, pc.args); err != nil {
			err = fmt.Errorf("initialize %q: %w", pc.name, err)
			f.rollback(batch, done)
			f.failed(ctx, batch, err)
			return err
		}
		if f.container != nil {
			if err := f.container.Add(pc.name, pc.instance); err != nil {
				f.rollback(batch, done)
				f.failed(ctx, batch, err)
				return err
			}
		}
		done = append(done, pc)

		if f.hooks.OnComponentInitialized != nil {
			f.hooks.OnComponentInitialized(ctx, &domain.ComponentEvent{Timestamp: time.Now(), Name: pc.name, Class: pc.class.Name()})
		}
	}

	f.logger.Info("components initialized", "count", len(done))
	return nil
}

// Discard drops every pending component without initializing it.
func (f *Factory) Discard() {
	f.mu.Lock()
	batch := f.pending
	f.pending = nil
	f.mu.Unlock()

	f.rollback(batch, nil)
}

func (f *Factory) failed(ctx context.Context, batch []*pendingComponent, err error) {
	names := make([]string, len(batch))
	for i, p := range batch {
		names[i] = p.name
	}
	f.logger.Error("component initialization failed", "pending", names, "error", err)
	if f.hooks.OnBuildFailed != nil {
		f.hooks.OnBuildFailed(ctx, &domain.BuildEvent{Timestamp: time.Now(), Pending: names, Err: err})
	}
}

func (f *Factory) rollback(batch, done []*pendingComponent) {
	// Detach the listeners the batch attached to components that survive it.
	for _, pc := range batch {
		for _, fn := range pc.undo {
			fn()
		}
	}
	if f.container != nil {
		for _, pc := range done {
			f.container.Remove(pc.name)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make(map[int]struct{}, len(batch))
	for _, pc := range batch {
		ids[pc.id] = struct{}{}
		for _, key := range pc.sources {
			f.hub.Deregister(key)
		}
	}
	for t, entries := range f.index {
		entries = slices.DeleteFunc(entries, func(e entry) bool {
			_, drop := ids[e.id]
			return drop
		})
		if len(entries) == 0 {
			delete(f.index, t)
		} else {
			f.index[t] = entries
		}
	}
}

// plan resolves the injected parameters of batch and returns the
// initialization order: components without pending dependencies first, in add
// order, then the others in depth-first post-order.
func (f *Factory) plan(batch []*pendingComponent) ([]*pendingComponent, error) {
	byName := make(map[string]*pendingComponent, len(batch))
	for _, pc := range batch {
		byName[pc.name] = pc
	}

	deps := make(map[string][]string, len(batch))
	for _, pc := range batch {
		var found []entry
		for _, p := range pc.class.Params() {
			resolved, err := f.resolve(pc, p)
			if err != nil {
				return nil, err
			}
			found = append(found, resolved...)
		}
		for _, e := range found {
			if _, ok := byName[e.name]; ok && e.name != "" && !slices.Contains(deps[pc.name], e.name) {
				deps[pc.name] = append(deps[pc.name], e.name)
			}
		}
		for _, other := range batch {
			if other != pc && pc.args.references(other.instance) && !slices.Contains(deps[pc.name], other.name) {
				deps[pc.name] = append(deps[pc.name], other.name)
			}
		}
	}

	const (
		unvisited = iota
		visiting
		visited
	)
	state := make(map[string]int, len(batch))
	order := make([]*pendingComponent, 0, len(batch))
	for _, pc := range batch {
		if len(deps[pc.name]) == 0 {
			state[pc.name] = visited
			order = append(order, pc)
		}
	}

	var visit func(name string, stack []string) error
	visit = func(name string, stack []string) error {
		switch state[name] {
		case visited:
			return nil
		case visiting:
			cycle := append(stack[slices.Index(stack, name):], name)
			return fmt.Errorf("%w: %s", domain.ErrDependencyCycle, strings.Join(cycle, " -> "))
		}
		state[name] = visiting
		stack = append(stack, name)
		for _, dep := range deps[name] {
			if err := visit(dep, stack); err != nil {
				return err
			}
		}
		state[name] = visited
		order = append(order, byName[name])
		return nil
	}

	for _, pc := range batch {
		if err := visit(pc.name, nil); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// resolve injects p into the arguments of pc and returns the instances used.
func (f *Factory) resolve(pc *pendingComponent, p Param) ([]entry, error) {
	if _, explicit := pc.args.Named[p.Name]; explicit {
		return nil, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	candidates := func(t reflect.Type) []entry {
		return slices.DeleteFunc(slices.Clone(f.index[t]), func(e entry) bool { return e.id == pc.id })
	}
	fail := func(err error, matches []entry) error {
		de := &domain.DependencyError{Component: pc.name, Param: p.Name, Type: p.TypeString(), Err: err}
		for _, e := range matches {
			de.Candidates = append(de.Candidates, e.label())
		}
		return de
	}

	if p.Collection {
		seen := make(map[int]struct{})
		var used []entry
		values := make([]any, 0)
		for _, t := range p.Types {
			for _, e := range candidates(t) {
				if _, dup := seen[e.id]; dup {
					continue
				}
				seen[e.id] = struct{}{}
				used = append(used, e)
				values = append(values, e.instance)
			}
		}
		pc.args.Named[p.Name] = values
		return used, nil
	}

	for _, t := range p.Types {
		matches := candidates(t)
		switch len(matches) {
		case 0:
			continue
		case 1:
			pc.args.Named[p.Name] = matches[0].instance
			return matches, nil
		default:
			return nil, fail(domain.ErrAmbiguousDependency, matches)
		}
	}
	if p.Nullable {
		return nil, nil
	}
	return nil, fail(domain.ErrDependencyNotFound, nil)
}

// references reports whether inst is passed as one of the arguments.
func (a Args) references(inst any) bool {
	match := func(v any) bool {
		if items, ok := v.([]any); ok {
			return slices.ContainsFunc(items, func(item any) bool { return item == inst })
		}
		return v == inst
	}
	return slices.ContainsFunc(a.Positional, match) || slices.ContainsFunc(slices.Collect(maps.Values(a.Named)), match)
}
