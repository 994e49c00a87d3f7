package declaration_test

import (
	"context"
	"testing"

	"github.com/aretw0/onion/pkg/component"
	"github.com/aretw0/onion/pkg/declaration"
	"github.com/aretw0/onion/pkg/domain"
	"github.com/aretw0/onion/pkg/events"
	"github.com/aretw0/onion/pkg/registry"
	"github.com/aretw0/onion/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type thermometer struct {
	component.Base
	Temperature component.Property[float64]
	inits       int
}

type checker struct {
	component.Base
	Temperature *component.Input[float64]
	Threshold   component.Property[float64]
	inits       int
}

func (c *checker) ExceedThreshold(v float64) bool {
	return v > c.Threshold.Value()
}

type box struct {
	component.Base
	Item any
}

var (
	thermometerClass = component.NewClass[thermometer]("lab.Thermometer",
		func(t *thermometer, _ component.Args) error {
			t.inits++
			return nil
		},
		component.WithFields(
			component.PropertyField("temperature", func(t *thermometer) *component.Property[float64] { return &t.Temperature }, component.Default(0.0)),
		),
	)

	checkerClass = component.NewClass[checker]("lab.ThresholdChecker",
		func(c *checker, _ component.Args) error {
			c.inits++
			return nil
		},
		component.WithFields(
			component.InputField("temperature", func(c *checker) **component.Input[float64] { return &c.Temperature }, component.Default(10.0)),
			component.PropertyField("threshold", func(c *checker) *component.Property[float64] { return &c.Threshold }),
		),
	)

	boxClass = component.NewClass[box]("lab.Box",
		func(b *box, args component.Args) error {
			b.Item, _ = args.At(0)
			return nil
		},
	)
)

func classes() *registry.Registry {
	r := registry.NewRegistry()
	r.Register(thermometerClass, checkerClass, boxClass)
	return r
}

func decode(t *testing.T, doc string) *schema.Declaration {
	t.Helper()
	decl, err := schema.DecodeYAML([]byte(doc), classes())
	require.NoError(t, err)
	return decl
}

func build(t *testing.T, p *declaration.Processor) *component.Container {
	t.Helper()
	ctx := context.Background()
	c := component.NewContainer()
	f := component.NewFactory(events.NewDispatcher(), component.WithContainer(c))
	require.NoError(t, p.CreateWith(ctx, f))
	require.NoError(t, f.Initialize(ctx))
	return c
}

const greenhouse = `
name: greenhouse
components:
  - name: checker
    cls: lab.ThresholdChecker
    props:
      threshold: 10.0
      temperature: {$ref: thermometer, $prop: temperature}
  - name: thermometer
    cls: lab.Thermometer
    props:
      temperature: 5.0
`

func TestProcessor_EndToEnd(t *testing.T) {
	p, err := declaration.New(decode(t, greenhouse))
	require.NoError(t, err)
	assert.Equal(t, []string{"thermometer", "checker"}, p.Order())

	c := build(t, p)
	chk, err := component.Lookup[*checker](c, "checker")
	require.NoError(t, err)
	th, err := component.Lookup[*thermometer](c, "thermometer")
	require.NoError(t, err)

	assert.True(t, chk.ExceedThreshold(20.0))
	assert.False(t, chk.ExceedThreshold(2.0))
	assert.Equal(t, 5.0, chk.Temperature.Value())

	require.NoError(t, th.Temperature.Set(context.Background(), 12.5))
	assert.Equal(t, 12.5, chk.Temperature.Value(), "the input follows the referenced property")
}

func TestProcessor_Empty(t *testing.T) {
	p, err := declaration.New(&schema.Declaration{})
	require.NoError(t, err)
	assert.Empty(t, p.Order())

	c := build(t, p)
	assert.Equal(t, 0, c.Len())
}

func TestProcessor_Reused(t *testing.T) {
	p, err := declaration.New(decode(t, greenhouse))
	require.NoError(t, err)
	build(t, p)

	f := component.NewFactory(nil)
	assert.ErrorIs(t, p.CreateWith(context.Background(), f), domain.ErrDeclarationReused)
}

func TestProcessor_DoesNotMutateInput(t *testing.T) {
	decl := decode(t, `
components:
  - name: outer
    cls: lab.Box
    args:
      - {name: inner, cls: lab.Box}
`)
	_, err := declaration.New(decl)
	require.NoError(t, err)

	_, ok := decl.Components[0].Args[0].(*schema.Component)
	assert.True(t, ok)
	assert.Len(t, decl.Components, 1)
}

func TestProcessor_Nesting(t *testing.T) {
	decl := decode(t, `
components:
  - name: a
    cls: lab.Box
    args:
      - name: b
        cls: lab.Box
        args:
          - name: c
            cls: lab.Box
            args: [{name: d, cls: lab.Box, args: [leaf]}]
`)
	p, err := declaration.New(decl)
	require.NoError(t, err)

	for _, name := range []string{"a", "a.b", "a.b.c", "a.b.c.d"} {
		_, ok := p.Lookup(name)
		assert.True(t, ok, name)
	}
	assert.Len(t, p.Nested(), 3)
	assert.Equal(t, []string{"a.b.c.d", "a.b.c", "a.b", "a"}, p.Order())

	a, _ := p.Lookup("a")
	assert.Equal(t, schema.Reference{Ref: "a.b"}, a.Args[0])

	c := build(t, p)
	outer, err := component.Lookup[*box](c, "a")
	require.NoError(t, err)
	deepest := outer.Item.(*box).Item.(*box).Item.(*box)
	assert.Equal(t, "a.b.c.d", deepest.Name())
	assert.Equal(t, "leaf", deepest.Item)
}

func TestProcessor_NestedInProps(t *testing.T) {
	decl := decode(t, `
components:
  - name: checker
    cls: lab.ThresholdChecker
    props:
      threshold: 1.0
      temperature: {$ref: checker.sensor, $prop: temperature}
    kwargs:
      extra: {name: sensor, cls: lab.Thermometer}
`)
	p, err := declaration.New(decl)
	require.NoError(t, err)
	assert.Equal(t, []string{"checker.sensor", "checker"}, p.Order())
}

func TestProcessor_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
		path string
	}{
		{
			name: "unknown reference in args",
			doc:  "components: [{name: a, cls: lab.Box, args: [{$ref: ghost}]}]",
			want: domain.ErrUnknownReference,
			path: "a.args.0",
		},
		{
			name: "unknown reference in kwargs",
			doc:  "components: [{name: a, cls: lab.Box, kwargs: {x: [{$ref: ghost}]}}]",
			want: domain.ErrUnknownReference,
			path: "a.kwargs.x.0",
		},
		{
			name: "unknown reference in props",
			doc:  "components: [{name: c, cls: lab.ThresholdChecker, props: {threshold: 1, temperature: {$ref: ghost}}}]",
			want: domain.ErrUnknownReference,
			path: "c.props.temperature",
		},
		{
			name: "unknown field",
			doc: `
components:
  - {name: t, cls: lab.Thermometer}
  - {name: c, cls: lab.ThresholdChecker, props: {threshold: 1, temperature: {$ref: t, $prop: nonexistentField}}}`,
			want: domain.ErrUnknownReference,
			path: "c.props.temperature",
		},
		{
			name: "component where a value is expected",
			doc: `
components:
  - {name: t, cls: lab.Thermometer}
  - {name: c, cls: lab.ThresholdChecker, props: {threshold: {$ref: t}}}`,
			want: domain.ErrReferenceTypeMismatch,
			path: "c.props.threshold",
		},
		{
			name: "missing property value",
			doc:  "components: [{name: c, cls: lab.ThresholdChecker}]",
			want: domain.ErrMissingPropertyValue,
			path: "c.props.threshold",
		},
		{
			name: "unknown property",
			doc:  "components: [{name: t, cls: lab.Thermometer, props: {humidity: 3}}]",
			want: domain.ErrUnknownProperty,
			path: "t.props.humidity",
		},
		{
			name: "duplicate name",
			doc:  "components: [{name: t, cls: lab.Thermometer}, {name: t, cls: lab.Thermometer}]",
			want: domain.ErrDuplicateComponentName,
			path: "components.1",
		},
		{
			name: "nested name clash",
			doc: `
components:
  - {name: a, cls: lab.Box, args: [{name: b, cls: lab.Box}]}
  - {name: a.b, cls: lab.Box}`,
			want: domain.ErrDuplicateComponentName,
			path: "a.args.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := declaration.New(decode(t, tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var loc *domain.LocationError
			require.ErrorAs(t, err, &loc)
			assert.Equal(t, tt.path, loc.Path.String())
		})
	}
}

func TestProcessor_NoConstructorRunsOnFailure(t *testing.T) {
	decl := decode(t, `
components:
  - {name: thermometer, cls: lab.Thermometer}
  - {name: checker, cls: lab.ThresholdChecker, props: {threshold: 1, temperature: {$ref: thermometer, $prop: nonexistentField}}}
`)
	_, err := declaration.New(decl)
	assert.ErrorIs(t, err, domain.ErrUnknownReference)
}

func TestProcessor_WiredFields(t *testing.T) {
	wired := component.NewClass[checker]("lab.Wired", nil, component.WithFields(
		component.InputField("temperature", func(c *checker) **component.Input[float64] { return &c.Temperature }, component.Wired()),
	))

	missing := &schema.Declaration{Components: []*schema.Component{{Name: "w", Class: wired}}}
	_, err := declaration.New(missing)
	assert.ErrorIs(t, err, domain.ErrMissingInputWiring)

	literal := &schema.Declaration{Components: []*schema.Component{{Name: "w", Class: wired, Props: map[string]any{"temperature": 3.0}}}}
	_, err = declaration.New(literal)
	assert.ErrorIs(t, err, domain.ErrMissingInputWiring)
}

func TestProcessor_NilClass(t *testing.T) {
	decl := &schema.Declaration{Components: []*schema.Component{{Name: "x", ClassName: "lab.Missing"}}}
	_, err := declaration.New(decl)
	assert.ErrorIs(t, err, domain.ErrUnknownClass)
}

func TestProcessor_Cycle(t *testing.T) {
	decl := decode(t, `
components:
  - {name: a, cls: lab.Box, args: [{$ref: b}]}
  - {name: b, cls: lab.Box, args: [{$ref: a}]}
`)
	_, err := declaration.New(decl)
	assert.ErrorIs(t, err, domain.ErrDependencyCycle)
	assert.Contains(t, err.Error(), "a -> b -> a")
}

type sensor interface {
	Reading() float64
}

func (t *thermometer) Reading() float64 { return t.Temperature.Value() }

type station struct {
	Left, Right sensor
}

func TestProcessor_SharedSingleton(t *testing.T) {
	sensed := component.NewClass[thermometer]("lab.Sensor",
		func(t *thermometer, _ component.Args) error {
			t.inits++
			return nil
		},
		component.WithFields(
			component.PropertyField("temperature", func(t *thermometer) *component.Property[float64] { return &t.Temperature }, component.Default(0.0)),
		),
		component.Implements[sensor](),
	)
	stationClass := component.NewClass[station]("lab.Station",
		func(s *station, args component.Args) (err error) {
			if s.Left, err = component.Arg[sensor](args, "left"); err != nil {
				return err
			}
			s.Right, err = component.Arg[sensor](args, "right")
			return err
		},
		component.WithParams(component.Inject[sensor]("left"), component.Inject[sensor]("right")),
	)

	decl := &schema.Declaration{Components: []*schema.Component{
		{Name: "north", Class: stationClass},
		{Name: "south", Class: stationClass},
		{Name: "probe", Class: sensed},
	}}
	p, err := declaration.New(decl)
	require.NoError(t, err)
	c := build(t, p)

	north, _ := component.Lookup[*station](c, "north")
	south, _ := component.Lookup[*station](c, "south")
	probe, _ := component.Lookup[*thermometer](c, "probe")
	assert.Same(t, probe, north.Left)
	assert.Same(t, probe, south.Right)
	assert.Equal(t, 1, probe.inits)
}
