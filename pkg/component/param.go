package component

import (
	"fmt"
	"reflect"
	"strings"
)

// Param is a constructor parameter resolved by type from the registered instances.
// A named argument with the same name takes precedence over injection.
type Param struct {
	Name string
	// Types lists the accepted types; several types form a union tried in order.
	Types []reflect.Type
	// Collection parameters receive every match as a []any.
	Collection bool
	// Nullable parameters are left unset when nothing matches.
	Nullable bool
}

// Inject requests the single instance of type T.
func Inject[T any](name string) Param {
	return Param{Name: name, Types: []reflect.Type{reflect.TypeFor[T]()}}
}

// InjectAll requests every instance of type T. No match is an empty collection.
func InjectAll[T any](name string) Param {
	return Param{Name: name, Types: []reflect.Type{reflect.TypeFor[T]()}, Collection: true}
}

// InjectAny requests a single instance of the first of types that has one.
func InjectAny(name string, types ...reflect.Type) Param {
	return Param{Name: name, Types: types}
}

// InjectAllOf requests every instance of any of types.
func InjectAllOf(name string, types ...reflect.Type) Param {
	return Param{Name: name, Types: types, Collection: true}
}

// Optional returns a copy of p that tolerates a missing dependency.
func (p Param) Optional() Param {
	p.Nullable = true
	return p
}

// TypeString describes the requested types, e.g. "*demo.Checker | events.Dispatcher".
func (p Param) TypeString() string {
	names := make([]string, len(p.Types))
	for i, t := range p.Types {
		names[i] = t.String()
	}
	s := strings.Join(names, " | ")
	if p.Collection {
		s = fmt.Sprintf("[]%s", s)
	}
	if p.Nullable {
		s += " | nil"
	}
	return s
}
