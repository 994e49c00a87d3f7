package declaration

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/aretw0/onion/pkg/component"
	"github.com/aretw0/onion/pkg/domain"
	"github.com/aretw0/onion/pkg/schema"
)

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the processor logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// Processor holds a flattened and validated declaration.
type Processor struct {
	decl   *schema.Declaration
	logger *slog.Logger

	components []*schema.Component
	byName     map[string]*schema.Component
	refs       []reference
	nested     []nested
	order      []string

	mu   sync.Mutex
	used bool
}

// New processes a copy of decl. The returned error combines every problem
// found; use errors.Is and errors.As to inspect it.
func New(decl *schema.Declaration, opts ...Option) (*Processor, error) {
	p := &Processor{
		decl:   decl.Clone(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		byName: make(map[string]*schema.Component),
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := p.register(); err != nil {
		return nil, err
	}
	if err := p.flatten(); err != nil {
		return nil, err
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	order, err := p.plan()
	if err != nil {
		return nil, err
	}
	p.order = order

	p.logger.Debug("declaration processed",
		"name", p.decl.Name,
		"components", len(p.components),
		"references", len(p.refs),
		"nested", len(p.nested))
	return p, nil
}

// Declaration returns the flattened copy of the declaration.
func (p *Processor) Declaration() *schema.Declaration {
	return p.decl
}

// Components returns every component, nested ones included, in registration order.
func (p *Processor) Components() []*schema.Component {
	return p.components
}

// Lookup returns the component called name.
func (p *Processor) Lookup(name string) (*schema.Component, bool) {
	c, ok := p.byName[name]
	return c, ok
}

// References returns every reference found in the declaration.
func (p *Processor) References() []Replaceable[schema.Reference] {
	return p.refs
}

// Nested returns the nested component declarations that were lifted to the top level.
func (p *Processor) Nested() []Replaceable[*schema.Component] {
	return p.nested
}

// Order returns the component names with referenced components first.
func (p *Processor) Order() []string {
	return p.order
}

// Dependencies returns the names of the components referenced by name.
func (p *Processor) Dependencies(name string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, r := range p.refs {
		if r.Owner == name && !seen[r.Placeholder.Ref] {
			seen[r.Placeholder.Ref] = true
			out = append(out, r.Placeholder.Ref)
		}
	}
	return out
}

// CreateWith adds every component to adder in build order, replacing each
// reference with the referenced instance or the selected live field. A
// processor can be used once.
func (p *Processor) CreateWith(ctx context.Context, adder component.Adder) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.used {
		return domain.ErrDeclarationReused
	}
	p.used = true

	owned := make(map[string][]reference)
	for _, r := range p.refs {
		owned[r.Owner] = append(owned[r.Owner], r)
	}

	instances := make(map[string]any, len(p.order))
	for _, name := range p.order {
		if err := ctx.Err(); err != nil {
			return err
		}
		c := p.byName[name]
		for _, r := range owned[name] {
			v, err := p.resolve(r, instances)
			if err != nil {
				return err
			}
			r.Replace(v)
		}

		inst, err := adder.Add(ctx, c.Name, c.Class, c.Args, c.Kwargs, c.Props)
		if err != nil {
			return err
		}
		instances[name] = inst
		p.logger.Debug("component declared", "name", name, "class", c.Class.Name())
	}
	return nil
}

func (p *Processor) resolve(r reference, instances map[string]any) (any, error) {
	inst, ok := instances[r.Placeholder.Ref]
	if !ok {
		return nil, domain.NewLocationError(r.Path, domain.ErrUnknownReference, "%q was not created", r.Placeholder.Ref)
	}
	if r.Placeholder.Prop == "" {
		return inst, nil
	}
	f, _ := p.byName[r.Placeholder.Ref].Class.Field(r.Placeholder.Prop)
	return f.Get(inst), nil
}

func (p *Processor) add(c *schema.Component, path domain.Path) error {
	if _, dup := p.byName[c.Name]; dup {
		return domain.NewLocationError(path, domain.ErrDuplicateComponentName, "%q", c.Name)
	}
	if c.Class == nil {
		return domain.NewLocationError(domain.Path{c.Name, "cls"}, domain.ErrUnknownClass, "%q", c.ClassName)
	}
	p.byName[c.Name] = c
	p.components = append(p.components, c)
	return nil
}

func (p *Processor) register() error {
	for i, c := range p.decl.Components {
		if err := p.add(c, domain.Path{"components"}.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Processor) String() string {
	return fmt.Sprintf("declaration %q (%d components)", p.decl.Name, len(p.components))
}
