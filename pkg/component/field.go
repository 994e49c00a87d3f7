package component

import (
	"fmt"
	"reflect"

	"github.com/aretw0/onion/pkg/domain"
	"github.com/aretw0/onion/pkg/events"
)

// Kind classifies a reactive field.
type Kind int

const (
	KindProperty Kind = iota
	KindEvent
	KindInput
	KindOutput
)

func (k Kind) String() string {
	switch k {
	case KindProperty:
		return "property"
	case KindEvent:
		return "event"
	case KindInput:
		return "input"
	case KindOutput:
		return "output"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Field describes one reactive field of a class.
type Field struct {
	Name string
	Kind Kind
	// Elem is the value type for properties, inputs and outputs, and the event
	// type for events.
	Elem reflect.Type
	// Emits is the type of the events the field dispatches, if any.
	Emits reflect.Type

	Default    any
	HasDefault bool
	// Optional fields fall back to the zero value.
	Optional bool
	// Wired fields must be fed with another component's field.
	Wired bool

	inject func(f *Field, inst any, value any, present bool, env injection) (events.Registrable, error)
	get    func(inst any) any
}

// FieldOption configures a Field.
type FieldOption func(*Field)

// Default sets the value used when props do not mention the field.
func Default(v any) FieldOption {
	return func(f *Field) {
		f.Default = v
		f.HasDefault = true
	}
}

// Optional lets the field fall back to its zero value.
func Optional() FieldOption {
	return func(f *Field) {
		f.Optional = true
	}
}

// Wired requires the field to be fed with a live field of another component.
func Wired() FieldOption {
	return func(f *Field) {
		f.Wired = true
	}
}

// Get returns the live field object of inst.
func (f Field) Get(inst any) any {
	return f.get(inst)
}

// AcceptsComponent reports whether a reference to a component of class c can
// feed the field.
func (f Field) AcceptsComponent(c *Class) bool {
	if f.Kind == KindEvent || f.Kind == KindOutput {
		return false
	}
	return c.AssignableTo(f.Elem)
}

// AcceptsField reports whether the field src of another component can feed f.
func (f Field) AcceptsField(src Field) bool {
	switch f.Kind {
	case KindEvent:
		return src.Emits != nil && src.Emits.AssignableTo(f.Elem)
	case KindOutput:
		return src.Kind == KindInput && f.Elem.AssignableTo(src.Elem)
	}
	if src.Kind != KindProperty && src.Kind != KindInput {
		return false
	}
	return src.Elem.AssignableTo(f.Elem)
}

type injection struct {
	component  string
	dispatcher events.Dispatcher
	// undo collects what must be reverted if the component is dropped.
	undo *[]func()
}

func (env injection) onRollback(fn func()) {
	if env.undo != nil {
		*env.undo = append(*env.undo, fn)
	}
}

func newField(name string, kind Kind, elem, emits reflect.Type, opts []FieldOption) Field {
	f := Field{Name: name, Kind: kind, Elem: elem, Emits: emits}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// initial resolves the seed value of a field that props do not mention.
func initial[T any](f *Field) (T, error) {
	var zero T
	switch {
	case f.Wired:
		return zero, domain.ErrMissingInputWiring
	case f.HasDefault:
		v, err := coerce[T](f.Default)
		if err != nil {
			return zero, fmt.Errorf("%w: default: %v", domain.ErrInvalidPropertyValue, err)
		}
		return v, nil
	case f.Optional:
		return zero, nil
	}
	return zero, domain.ErrMissingPropertyValue
}

// literal converts a props literal for a field.
func literal[T any](f *Field, value any) (T, error) {
	var zero T
	if f.Wired {
		return zero, fmt.Errorf("%w: got %T, a live field is required", domain.ErrMissingInputWiring, value)
	}
	v, err := coerce[T](value)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", domain.ErrInvalidPropertyValue, err)
	}
	return v, nil
}

// PropertyField declares a Property[T] slot of C.
// A live Property[T] fed through props is wrapped in a read-only View.
func PropertyField[C, T any](name string, slot func(*C) *Property[T], opts ...FieldOption) Field {
	f := newField(name, KindProperty, reflect.TypeFor[T](), reflect.TypeFor[ValueChanged[T]](), opts)
	f.get = func(inst any) any {
		return *slot(inst.(*C))
	}
	f.inject = func(f *Field, inst any, value any, present bool, env injection) (events.Registrable, error) {
		dst := slot(inst.(*C))
		if present {
			if live, ok := value.(Property[T]); ok {
				*dst = NewView(inst, live)
				return nil, nil
			}
		}
		var (
			v   T
			err error
		)
		if present {
			v, err = literal[T](f, value)
		} else {
			v, err = initial[T](f)
		}
		if err != nil {
			return nil, err
		}
		p := NewValue(inst, v, env.dispatcher)
		*dst = p
		return p.Source, nil
	}
	return f
}

// InputField declares an *Input[T] slot of C.
// A live Property[T] fed through props is followed: every change is received.
func InputField[C, T any](name string, slot func(*C) **Input[T], opts ...FieldOption) Field {
	f := newField(name, KindInput, reflect.TypeFor[T](), reflect.TypeFor[ValueChanged[T]](), opts)
	f.get = func(inst any) any {
		return *slot(inst.(*C))
	}
	f.inject = func(f *Field, inst any, value any, present bool, env injection) (events.Registrable, error) {
		dst := slot(inst.(*C))
		if present {
			if live, ok := value.(Property[T]); ok {
				in := NewInput(inst, live.Value(), env.dispatcher)
				l := in.Follow(live)
				env.onRollback(func() { _ = live.RemoveListener(l) })
				*dst = in
				return in.prop.Source, nil
			}
		}
		var (
			v   T
			err error
		)
		if present {
			v, err = literal[T](f, value)
		} else {
			v, err = initial[T](f)
		}
		if err != nil {
			return nil, err
		}
		in := NewInput(inst, v, env.dispatcher)
		*dst = in
		return in.prop.Source, nil
	}
	return f
}

// EventField declares an *events.Source[E] slot of C.
// A live source fed through props is shared rather than copied.
func EventField[C, E any](name string, slot func(*C) **events.Source[E], opts ...FieldOption) Field {
	f := newField(name, KindEvent, reflect.TypeFor[E](), reflect.TypeFor[E](), opts)
	f.get = func(inst any) any {
		return *slot(inst.(*C))
	}
	f.inject = func(f *Field, inst any, value any, present bool, env injection) (events.Registrable, error) {
		dst := slot(inst.(*C))
		if present {
			switch live := value.(type) {
			case *events.Source[E]:
				*dst = live
				return nil, nil
			case interface{ Events() *events.Source[E] }:
				*dst = live.Events()
				return nil, nil
			}
			if f.Wired {
				return nil, fmt.Errorf("%w: got %T, an event source is required", domain.ErrMissingInputWiring, value)
			}
			return nil, fmt.Errorf("%w: got %T, an event source is required", domain.ErrInvalidPropertyValue, value)
		}
		if f.Wired {
			return nil, domain.ErrMissingInputWiring
		}
		src := events.NewSource[E](env.dispatcher)
		*dst = src
		return src, nil
	}
	return f
}

// OutputField declares an *Output[T] slot of C.
// Props may list the inputs the output is connected to.
func OutputField[C, T any](name string, slot func(*C) **Output[T], opts ...FieldOption) Field {
	f := newField(name, KindOutput, reflect.TypeFor[T](), nil, opts)
	f.get = func(inst any) any {
		return *slot(inst.(*C))
	}
	f.inject = func(f *Field, inst any, value any, present bool, env injection) (events.Registrable, error) {
		out := NewOutput[T](inst)
		if present {
			receivers, ok := value.([]any)
			if !ok {
				receivers = []any{value}
			}
			for i, r := range receivers {
				dest, ok := r.(Receiver[T])
				if !ok {
					return nil, fmt.Errorf("%w: destination %d is %T, not an input of %v", domain.ErrInvalidPropertyValue, i, r, f.Elem)
				}
				out.Connect(dest)
			}
		} else if f.Wired {
			return nil, domain.ErrMissingInputWiring
		}
		*slot(inst.(*C)) = out
		return nil, nil
	}
	return f
}
