package component_test

import (
	"testing"

	"github.com/aretw0/onion/pkg/component"
	"github.com/aretw0/onion/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgs(t *testing.T) {
	args := component.Args{
		Positional: []any{12, "x"},
		Named: map[string]any{
			"initial": 7,
			"names":   []any{"a", "b"},
			"retries": "3",
		},
	}

	initial, err := component.Arg[float64](args, "initial")
	require.NoError(t, err)
	assert.Equal(t, 7.0, initial)

	retries, err := component.Arg[int](args, "retries")
	require.NoError(t, err)
	assert.Equal(t, 3, retries, "scalars are weakly decoded")

	first, err := component.ArgAt[int](args, 0)
	require.NoError(t, err)
	assert.Equal(t, 12, first)

	_, err = component.ArgAt[int](args, 5)
	assert.ErrorIs(t, err, domain.ErrMissingArgument)

	_, err = component.Arg[int](args, "ghost")
	assert.ErrorIs(t, err, domain.ErrMissingArgument)

	fallback, err := component.ArgOr(args, "ghost", 2.5)
	require.NoError(t, err)
	assert.Equal(t, 2.5, fallback)

	names, err := component.All[string](args, "names")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	none, err := component.All[string](args, "ghost")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestArgs_Decode(t *testing.T) {
	var cfg struct {
		Initial float64 `onion:"initial"`
		Label   string  `onion:"label"`
	}
	args := component.Args{Named: map[string]any{"initial": 5, "label": "lab"}}

	require.NoError(t, args.Decode(&cfg))
	assert.Equal(t, 5.0, cfg.Initial)
	assert.Equal(t, "lab", cfg.Label)
}

func TestClass_Descriptor(t *testing.T) {
	assert.Equal(t, "test.Probe", probeClass.Name())
	assert.Len(t, probeClass.Properties(), 2)
	assert.Empty(t, probeClass.Events())

	level, ok := probeClass.Field("level")
	require.True(t, ok)
	assert.Equal(t, component.KindProperty, level.Kind)
	assert.Equal(t, reflectType[float64](), level.Elem)
	assert.True(t, level.HasDefault)
	assert.Equal(t, 1.5, level.Default)

	_, ok = probeClass.Field("ghost")
	assert.False(t, ok)

	assert.True(t, probeClass.AssignableTo(reflectType[sensor]()))
	assert.True(t, probeClass.AssignableTo(reflectType[*probe]()))
	assert.False(t, probeClass.AssignableTo(reflectType[*monitor]()))

	fired, ok := gateClass.Field("fired")
	require.True(t, ok)
	in, _ := gateClass.Field("in")
	assert.Equal(t, component.KindEvent, fired.Kind)
	assert.True(t, in.Wired)
	assert.Len(t, gateClass.Events(), 1)

	assert.True(t, in.AcceptsField(level), "a float property can feed a float input")
	assert.False(t, fired.AcceptsField(level))
	assert.True(t, level.AcceptsField(in))
	assert.False(t, level.AcceptsComponent(probeClass))
}

func TestClass_PanicsOnBadDescriptor(t *testing.T) {
	assert.Panics(t, func() {
		component.NewClass[monitor]("test.Bad", nil, component.Implements[sensor]())
	})
	assert.Panics(t, func() {
		component.NewClass[probe]("test.Twice", nil, component.WithFields(
			component.PropertyField("level", func(p *probe) *component.Property[float64] { return &p.Level }),
			component.PropertyField("level", func(p *probe) *component.Property[float64] { return &p.Level }),
		))
	})
}
