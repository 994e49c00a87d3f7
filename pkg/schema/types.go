package schema

import (
	"fmt"

	"github.com/aretw0/onion/pkg/component"
)

// Declaration is the root of a declaration document.
type Declaration struct {
	Name           string
	Version        string
	Requirements   []string
	Includes       []string
	Configurations []map[string]any
	Components     []*Component
}

// Component declares one component. Values in Args, Kwargs and Props may be
// literals, References, nested *Components, or lists and maps of those.
type Component struct {
	Name      string
	ClassName string
	Class     *component.Class
	Args      []any
	Kwargs    map[string]any
	Props     map[string]any
}

// Reference points to a component by name, optionally selecting one of its fields.
type Reference struct {
	Ref  string
	Prop string
}

func (r Reference) String() string {
	if r.Prop == "" {
		return fmt.Sprintf("$ref(%s)", r.Ref)
	}
	return fmt.Sprintf("$ref(%s.%s)", r.Ref, r.Prop)
}

// Clone returns a deep copy of the declaration. Live values such as component
// instances are shared.
func (d *Declaration) Clone() *Declaration {
	out := &Declaration{
		Name:         d.Name,
		Version:      d.Version,
		Requirements: append([]string(nil), d.Requirements...),
		Includes:     append([]string(nil), d.Includes...),
	}
	for _, c := range d.Configurations {
		out.Configurations = append(out.Configurations, cloneValue(c).(map[string]any))
	}
	for _, c := range d.Components {
		out.Components = append(out.Components, c.Clone())
	}
	return out
}

// Clone returns a deep copy of the component.
func (c *Component) Clone() *Component {
	if c == nil {
		return nil
	}
	out := &Component{
		Name:      c.Name,
		ClassName: c.ClassName,
		Class:     c.Class,
	}
	if c.Args != nil {
		out.Args = cloneValue(c.Args).([]any)
	}
	if c.Kwargs != nil {
		out.Kwargs = cloneValue(c.Kwargs).(map[string]any)
	}
	if c.Props != nil {
		out.Props = cloneValue(c.Props).(map[string]any)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	case *Component:
		return t.Clone()
	}
	return v
}
