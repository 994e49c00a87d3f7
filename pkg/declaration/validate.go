package declaration

import (
	"maps"
	"slices"

	"github.com/aretw0/onion/pkg/component"
	"github.com/aretw0/onion/pkg/domain"
	"github.com/aretw0/onion/pkg/schema"
	"go.uber.org/multierr"
)

func (p *Processor) validate() error {
	var errs error
	for _, r := range p.refs {
		errs = multierr.Append(errs, p.checkReference(r))
	}
	for _, c := range p.components {
		errs = multierr.Append(errs, checkFields(c))
	}
	return errs
}

func (p *Processor) checkReference(r reference) error {
	target, ok := p.byName[r.Placeholder.Ref]
	if !ok {
		return domain.NewLocationError(r.Path, domain.ErrUnknownReference, "%q", r.Placeholder.Ref)
	}

	var src component.Field
	if r.Placeholder.Prop != "" {
		src, ok = target.Class.Field(r.Placeholder.Prop)
		if !ok {
			return domain.NewLocationError(r.Path, domain.ErrUnknownReference, "%q has no field %q", r.Placeholder.Ref, r.Placeholder.Prop)
		}
	}

	name, listed, ok := r.field()
	if !ok {
		return nil
	}
	dst, ok := p.byName[r.Owner].Class.Field(name)
	if !ok || listed != (dst.Kind == component.KindOutput) {
		return nil
	}

	if r.Placeholder.Prop == "" {
		if !dst.AcceptsComponent(target.Class) {
			return domain.NewLocationError(r.Path, domain.ErrReferenceTypeMismatch,
				"%s %q expects %v, got %v", dst.Kind, dst.Name, dst.Elem, target.Class.Type())
		}
		return nil
	}
	if !dst.AcceptsField(src) {
		return domain.NewLocationError(r.Path, domain.ErrReferenceTypeMismatch,
			"%s %q expects %v, got %s %v", dst.Kind, dst.Name, dst.Elem, src.Kind, src.Elem)
	}
	return nil
}

func checkFields(c *schema.Component) error {
	var errs error
	props := domain.Path{c.Name, "props"}
	for _, key := range slices.Sorted(maps.Keys(c.Props)) {
		if _, ok := c.Class.Field(key); !ok {
			errs = multierr.Append(errs, domain.NewLocationError(props.Key(key), domain.ErrUnknownProperty, "class %s", c.Class.Name()))
		}
	}

	for _, f := range c.Class.Fields() {
		v, present := c.Props[f.Name]
		path := props.Key(f.Name)
		switch {
		case present && f.Wired && !isReference(v):
			errs = multierr.Append(errs, domain.NewLocationError(path, domain.ErrMissingInputWiring, "fed with a literal"))
		case present:
		case f.Wired:
			errs = multierr.Append(errs, domain.NewLocationError(path, domain.ErrMissingInputWiring, "%s %q", f.Kind, f.Name))
		case f.Kind == component.KindProperty || f.Kind == component.KindInput:
			if !f.HasDefault && !f.Optional {
				errs = multierr.Append(errs, domain.NewLocationError(path, domain.ErrMissingPropertyValue, "%s %q", f.Kind, f.Name))
			}
		}
	}
	return errs
}

func isReference(v any) bool {
	_, ok := v.(schema.Reference)
	return ok
}
