package declaration

import (
	"github.com/aretw0/onion/pkg/domain"
	"github.com/aretw0/onion/pkg/schema"
)

// Slot is a writable position inside a declaration value.
type Slot interface {
	Get() any
	Set(v any)
}

type mapSlot struct {
	m   map[string]any
	key string
}

func (s mapSlot) Get() any  { return s.m[s.key] }
func (s mapSlot) Set(v any) { s.m[s.key] = v }

type listSlot struct {
	list  []any
	index int
}

func (s listSlot) Get() any  { return s.list[s.index] }
func (s listSlot) Set(v any) { s.list[s.index] = v }

// Replaceable is a placeholder found while walking a declaration: a
// schema.Reference or a nested *schema.Component.
type Replaceable[T any] struct {
	// Owner is the name of the component whose values hold the placeholder.
	Owner       string
	Path        domain.Path
	Slot        Slot
	Placeholder T
}

// Replace writes v where the placeholder was.
func (r Replaceable[T]) Replace(v any) {
	r.Slot.Set(v)
}

// field returns the props field the placeholder feeds, if it sits directly
// under props or is an entry of a list under props.
func (r Replaceable[T]) field() (name string, listed bool, ok bool) {
	if len(r.Path) < 3 || r.Path[1] != "props" {
		return "", false, false
	}
	switch len(r.Path) {
	case 3:
		return r.Path[2], false, true
	case 4:
		return r.Path[2], true, true
	}
	return "", false, false
}

type (
	reference = Replaceable[schema.Reference]
	nested    = Replaceable[*schema.Component]
)
