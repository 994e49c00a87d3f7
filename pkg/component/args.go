package component

import (
	"fmt"

	"github.com/aretw0/onion/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Args carries the constructor arguments of a component: the declared positional
// values and the named values, injected dependencies included.
type Args struct {
	Positional []any
	Named      map[string]any
}

// At returns the positional argument i.
func (a Args) At(i int) (any, bool) {
	if i < 0 || i >= len(a.Positional) {
		return nil, false
	}
	return a.Positional[i], true
}

// Get returns the named argument.
func (a Args) Get(name string) (any, bool) {
	v, ok := a.Named[name]
	return v, ok
}

// Decode copies the named arguments into the struct pointed to by out.
// Durations may be written as strings such as "250ms".
func (a Args) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "onion",
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	return dec.Decode(a.Named)
}

// Arg returns the named argument converted to T.
func Arg[T any](a Args, name string) (T, error) {
	v, ok := a.Get(name)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %q", domain.ErrMissingArgument, name)
	}
	out, err := coerce[T](v)
	if err != nil {
		return out, fmt.Errorf("argument %q: %w", name, err)
	}
	return out, nil
}

// ArgOr returns the named argument converted to T, or def when absent.
func ArgOr[T any](a Args, name string, def T) (T, error) {
	if _, ok := a.Get(name); !ok {
		return def, nil
	}
	return Arg[T](a, name)
}

// ArgAt returns the positional argument i converted to T.
func ArgAt[T any](a Args, i int) (T, error) {
	v, ok := a.At(i)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: position %d", domain.ErrMissingArgument, i)
	}
	out, err := coerce[T](v)
	if err != nil {
		return out, fmt.Errorf("argument %d: %w", i, err)
	}
	return out, nil
}

// All returns the named collection argument as a []T. An absent argument is an
// empty collection.
func All[T any](a Args, name string) ([]T, error) {
	v, ok := a.Get(name)
	if !ok {
		return nil, nil
	}
	switch items := v.(type) {
	case []T:
		return items, nil
	case []any:
		out := make([]T, 0, len(items))
		for i, item := range items {
			t, err := coerce[T](item)
			if err != nil {
				return nil, fmt.Errorf("argument %q[%d]: %w", name, i, err)
			}
			out = append(out, t)
		}
		return out, nil
	}
	t, err := coerce[T](v)
	if err != nil {
		return nil, fmt.Errorf("argument %q: %w", name, err)
	}
	return []T{t}, nil
}

// coerce converts v to T, decoding literals such as YAML scalars and maps.
func coerce[T any](v any) (T, error) {
	if t, ok := v.(T); ok {
		return t, nil
	}
	var out T
	if v == nil {
		return out, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(v); err != nil {
		return out, fmt.Errorf("cannot use %T as %T: %w", v, out, err)
	}
	return out, nil
}
