package schema

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/aretw0/onion/pkg/component"
	"github.com/aretw0/onion/pkg/config"
	"github.com/aretw0/onion/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Document is a parsed, not yet decoded, declaration document.
type Document map[string]any

// ParseYAML parses a YAML declaration document.
func ParseYAML(data []byte) (Document, error) {
	// Nested mappings must stay map[string]any, so the named type is applied last.
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return Document(raw), nil
}

// Configurations returns the configurations section, needed to build the
// provider that Decode resolves $config values against.
func (d Document) Configurations() ([]map[string]any, error) {
	raw, ok := d["configurations"]
	if !ok || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, domain.NewLocationError(domain.Path{"configurations"}, ErrInvalidDocument, "expected a list, got %T", raw)
	}
	out := make([]map[string]any, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, domain.NewLocationError(domain.Path{"configurations"}.Index(i), ErrInvalidDocument, "expected a mapping, got %T", item)
		}
		out = append(out, m)
	}
	return out, nil
}

// ClassResolver resolves dotted class names. *registry.Registry implements it.
type ClassResolver interface {
	Lookup(name string) (*component.Class, error)
}

// DecodeOption configures Decode.
type DecodeOption func(*decoder)

// WithConfig sets the provider $config values are resolved against.
func WithConfig(p config.Provider) DecodeOption {
	return func(d *decoder) {
		d.config = p
	}
}

type decoder struct {
	classes ClassResolver
	config  config.Provider
	errs    []error
}

// Decode converts a parsed document into a Declaration, resolving class names
// with classes. Every problem found is reported in an *AggregateError.
func Decode(doc Document, classes ClassResolver, opts ...DecodeOption) (*Declaration, error) {
	d := &decoder{classes: classes, config: config.Empty}
	for _, opt := range opts {
		opt(d)
	}

	decl := &Declaration{
		Name:         d.str(doc, "name", domain.Path{"name"}),
		Version:      d.str(doc, "version", domain.Path{"version"}),
		Requirements: d.strings(doc, "requirements"),
		Includes:     d.strings(doc, "includes"),
	}

	configurations, err := doc.Configurations()
	if err != nil {
		d.errs = append(d.errs, err)
	}
	decl.Configurations = configurations

	if raw, ok := doc["components"]; ok && raw != nil {
		items, ok := raw.([]any)
		if !ok {
			d.fail(domain.Path{"components"}, ErrInvalidDocument, "expected a list, got %T", raw)
		}
		for i, item := range items {
			path := domain.Path{"components"}.Index(i)
			m, ok := item.(map[string]any)
			if !ok {
				d.fail(path, ErrInvalidDocument, "expected a mapping, got %T", item)
				continue
			}
			if c := d.component(m, path); c != nil {
				decl.Components = append(decl.Components, c)
			}
		}
	}

	if len(d.errs) > 0 {
		return nil, &AggregateError{Errors: d.errs}
	}
	return decl, nil
}

// DecodeYAML parses and decodes a YAML document in one step.
func DecodeYAML(data []byte, classes ClassResolver, opts ...DecodeOption) (*Declaration, error) {
	doc, err := ParseYAML(data)
	if err != nil {
		return nil, err
	}
	return Decode(doc, classes, opts...)
}

func (d *decoder) fail(path domain.Path, err error, format string, args ...any) {
	d.errs = append(d.errs, domain.NewLocationError(path, err, format, args...))
}

func (d *decoder) str(m map[string]any, key string, path domain.Path) string {
	raw, ok := m[key]
	if !ok || raw == nil {
		return ""
	}
	switch v := raw.(type) {
	case string:
		return v
	case int, float64, bool:
		return fmt.Sprint(v)
	}
	d.fail(path, ErrInvalidDocument, "expected a string, got %T", raw)
	return ""
}

func (d *decoder) strings(m map[string]any, key string) []string {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		d.fail(domain.Path{key}, ErrInvalidDocument, "expected a list, got %T", raw)
		return nil
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		out = append(out, d.str(map[string]any{key: item}, key, domain.Path{key}.Index(i)))
	}
	return out
}

var componentKeys = []string{"name", "cls", "args", "kwargs", "props"}

func isComponent(m map[string]any) bool {
	_, named := m["name"]
	_, classed := m["cls"]
	return named && classed
}

func (d *decoder) component(m map[string]any, path domain.Path) *Component {
	before := len(d.errs)
	for _, key := range slices.Sorted(maps.Keys(m)) {
		if !slices.Contains(componentKeys, key) {
			d.fail(path.Key(key), ErrInvalidDocument, "unexpected component key")
		}
	}

	c := &Component{
		Name:      d.str(m, "name", path.Key("name")),
		ClassName: d.str(m, "cls", path.Key("cls")),
	}
	if c.Name == "" {
		d.fail(path.Key("name"), ErrInvalidDocument, "component name is required")
	}
	if c.ClassName == "" {
		d.fail(path.Key("cls"), ErrInvalidDocument, "component class is required")
	} else if d.classes != nil {
		class, err := d.classes.Lookup(c.ClassName)
		if err != nil {
			d.fail(path.Key("cls"), domain.ErrUnknownClass, "%q", c.ClassName)
		}
		c.Class = class
	}

	if raw, ok := m["args"]; ok && raw != nil {
		items, ok := raw.([]any)
		if !ok {
			d.fail(path.Key("args"), ErrInvalidDocument, "expected a list, got %T", raw)
		} else {
			c.Args = d.value(items, path.Key("args")).([]any)
		}
	}
	c.Kwargs = d.mapping(m, "kwargs", path)
	c.Props = d.mapping(m, "props", path)

	if len(d.errs) > before {
		return nil
	}
	return c
}

func (d *decoder) mapping(m map[string]any, key string, path domain.Path) map[string]any {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil
	}
	items, ok := raw.(map[string]any)
	if !ok {
		d.fail(path.Key(key), ErrInvalidDocument, "expected a mapping, got %T", raw)
		return nil
	}
	out := make(map[string]any, len(items))
	for _, k := range slices.Sorted(maps.Keys(items)) {
		out[k] = d.value(items[k], path.Key(key).Key(k))
	}
	return out
}

// value decodes v, returning a value of the same shape for lists and plain maps.
func (d *decoder) value(v any, path domain.Path) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = d.value(item, path.Index(i))
		}
		return out
	case map[string]any:
		if _, ok := t["$ref"]; ok {
			return d.reference(t, path)
		}
		if _, ok := t["$config"]; ok {
			return d.configValue(t, path)
		}
		if _, ok := t["$eval"]; ok {
			d.fail(path, ErrUnsupportedExpression, "$eval")
			return nil
		}
		if isComponent(t) {
			if c := d.component(t, path); c != nil {
				return c
			}
			return nil
		}
		out := make(map[string]any, len(t))
		for _, k := range slices.Sorted(maps.Keys(t)) {
			out[k] = d.value(t[k], path.Key(k))
		}
		return out
	}
	return v
}

func (d *decoder) reference(m map[string]any, path domain.Path) any {
	var r Reference
	for _, key := range slices.Sorted(maps.Keys(m)) {
		s, ok := m[key].(string)
		switch {
		case key != "$ref" && key != "$prop":
			d.fail(path.Key(key), ErrInvalidDocument, "unexpected reference key")
		case !ok:
			d.fail(path.Key(key), ErrInvalidDocument, "expected a string, got %T", m[key])
		case key == "$ref":
			r.Ref = s
		default:
			r.Prop = s
		}
	}
	if r.Ref == "" {
		d.fail(path.Key("$ref"), ErrInvalidDocument, "reference target is required")
	}
	return r
}

func (d *decoder) configValue(m map[string]any, path domain.Path) any {
	key, ok := m["$config"].(string)
	if !ok {
		d.fail(path.Key("$config"), ErrInvalidDocument, "expected a string, got %T", m["$config"])
		return nil
	}
	for k := range m {
		if k != "$config" && k != "$default" {
			d.fail(path.Key(k), ErrInvalidDocument, "unexpected config key")
		}
	}

	v, err := d.config.Get(key)
	if err == nil {
		return cloneValue(v)
	}
	if def, ok := m["$default"]; ok && errors.Is(err, config.ErrNotFound) {
		return cloneValue(def)
	}
	d.fail(path, err, "$config %q", key)
	return nil
}
