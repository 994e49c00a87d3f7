package component

import (
	"fmt"
	"reflect"
)

// Class is the descriptor of a component type: how to allocate it, which
// reactive fields it declares, which constructor parameters are injected and
// which interfaces it is indexed under.
type Class struct {
	name     string
	typ      reflect.Type
	fields   []Field
	params   []Param
	provides []reflect.Type

	alloc     func() any
	construct func(inst any, args Args) error
}

// ClassOption configures a Class.
type ClassOption func(*Class)

// WithFields declares the reactive fields of the class.
func WithFields(fields ...Field) ClassOption {
	return func(c *Class) {
		c.fields = append(c.fields, fields...)
	}
}

// WithParams declares the injected constructor parameters of the class.
func WithParams(params ...Param) ClassOption {
	return func(c *Class) {
		c.params = append(c.params, params...)
	}
}

// Implements indexes instances of the class under the interface I as well.
func Implements[I any]() ClassOption {
	return func(c *Class) {
		c.provides = append(c.provides, reflect.TypeFor[I]())
	}
}

// NewClass describes the component type C. Instances are *C; construct is the
// constructor and may be nil. It panics if C does not implement a type passed
// to Implements or declares two fields with the same name.
func NewClass[C any](name string, construct func(*C, Args) error, opts ...ClassOption) *Class {
	c := &Class{
		name:  name,
		typ:   reflect.TypeFor[*C](),
		alloc: func() any { return new(C) },
		construct: func(inst any, args Args) error {
			if construct == nil {
				return nil
			}
			return construct(inst.(*C), args)
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	for _, p := range c.provides {
		if !c.typ.Implements(p) {
			panic(fmt.Sprintf("component: class %s: %v does not implement %v", name, c.typ, p))
		}
	}
	seen := make(map[string]struct{}, len(c.fields))
	for _, f := range c.fields {
		if _, dup := seen[f.Name]; dup {
			panic(fmt.Sprintf("component: class %s: field %q declared twice", name, f.Name))
		}
		seen[f.Name] = struct{}{}
	}
	c.provides = append([]reflect.Type{c.typ}, c.provides...)
	return c
}

// Name returns the dotted class name.
func (c *Class) Name() string {
	return c.name
}

// Type returns the type of the instances, a pointer to the component struct.
func (c *Class) Type() reflect.Type {
	return c.typ
}

// Fields returns every declared reactive field, in declaration order.
func (c *Class) Fields() []Field {
	return c.fields
}

// Field returns the field called name.
func (c *Class) Field(name string) (Field, bool) {
	for _, f := range c.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Properties returns the value-holding fields: properties and inputs.
func (c *Class) Properties() []Field {
	return c.filter(func(f Field) bool { return f.Kind == KindProperty || f.Kind == KindInput })
}

// Events returns the event fields.
func (c *Class) Events() []Field {
	return c.filter(func(f Field) bool { return f.Kind == KindEvent })
}

func (c *Class) filter(keep func(Field) bool) []Field {
	var out []Field
	for _, f := range c.fields {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

// Params returns the injected constructor parameters.
func (c *Class) Params() []Param {
	return c.params
}

// Provides returns the types instances are indexed under, the instance type first.
func (c *Class) Provides() []reflect.Type {
	return c.provides
}

// AssignableTo reports whether instances can be used where t is expected.
func (c *Class) AssignableTo(t reflect.Type) bool {
	for _, p := range c.provides {
		if p.AssignableTo(t) {
			return true
		}
	}
	return false
}

// New allocates an instance without running the constructor.
func (c *Class) New() any {
	return c.alloc()
}

func (c *Class) String() string {
	return c.name
}
