package declaration

import (
	"maps"
	"slices"

	"github.com/aretw0/onion/pkg/domain"
	"github.com/aretw0/onion/pkg/schema"
)

// flatten lifts nested components to the top level, one nesting level per
// pass, and records every reference.
func (p *Processor) flatten() error {
	queue := slices.Clone(p.components)
	for len(queue) > 0 {
		var next []*schema.Component
		for _, c := range queue {
			w := walker{p: p, owner: c.Name}
			root := domain.Path{c.Name}
			for i := range c.Args {
				w.walk(listSlot{c.Args, i}, root.Key("args").Index(i))
			}
			w.walkMap(c.Kwargs, root.Key("kwargs"))
			w.walkMap(c.Props, root.Key("props"))
			if w.err != nil {
				return w.err
			}
			next = append(next, w.found...)
		}
		queue = next
	}
	return nil
}

type walker struct {
	p     *Processor
	owner string
	found []*schema.Component
	err   error
}

func (w *walker) walkMap(m map[string]any, path domain.Path) {
	for _, k := range slices.Sorted(maps.Keys(m)) {
		w.walk(mapSlot{m, k}, path.Key(k))
	}
}

func (w *walker) walk(slot Slot, path domain.Path) {
	if w.err != nil {
		return
	}
	switch v := slot.Get().(type) {
	case schema.Reference:
		w.p.refs = append(w.p.refs, reference{Owner: w.owner, Path: path, Slot: slot, Placeholder: v})
	case *schema.Component:
		v.Name = w.owner + "." + v.Name
		if err := w.p.add(v, path); err != nil {
			w.err = err
			return
		}
		ref := schema.Reference{Ref: v.Name}
		slot.Set(ref)
		w.p.nested = append(w.p.nested, nested{Owner: w.owner, Path: path, Slot: slot, Placeholder: v})
		w.p.refs = append(w.p.refs, reference{Owner: w.owner, Path: path, Slot: slot, Placeholder: ref})
		w.found = append(w.found, v)
	case []any:
		for i := range v {
			w.walk(listSlot{v, i}, path.Index(i))
		}
	case map[string]any:
		w.walkMap(v, path)
	}
}
