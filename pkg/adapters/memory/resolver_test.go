package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/onion/pkg/adapters/memory"
	"github.com/aretw0/onion/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver(t *testing.T) {
	r := memory.New()
	r.Put("lab", map[string]any{"threshold": 30})

	values, err := r.Load(context.Background(), map[string]any{"set": "lab"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"threshold": 30}, values)

	values["threshold"] = 0
	again, err := r.Load(context.Background(), map[string]any{"set": "lab"})
	require.NoError(t, err)
	assert.Equal(t, 30, again["threshold"], "loaded values must be copies")

	r.Delete("lab")
	_, err = r.Load(context.Background(), map[string]any{"set": "lab"})
	assert.ErrorIs(t, err, config.ErrNotFound)
}

func TestResolver_ThroughFactory(t *testing.T) {
	r := memory.New()
	r.Put("defaults", map[string]any{"delta": 0.5})

	f := config.NewFactory(config.WithResolvers(r))
	m, err := f.Build(context.Background(), []map[string]any{
		{"backend": "memory", "set": "defaults"},
	})
	require.NoError(t, err)

	v, err := m.Get("delta")
	require.NoError(t, err)
	assert.Equal(t, 0.5, v)
}
