package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/onion/pkg/adapters/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("temperature: 25.0\nsensors:\n  - a\n  - b\n"), 0o644))

	values, err := file.New().Load(context.Background(), map[string]any{"filename": path})
	require.NoError(t, err)
	assert.Equal(t, 25.0, values["temperature"])
	assert.Equal(t, []any{"a", "b"}, values["sensors"])
}

func TestResolver_ReadFile(t *testing.T) {
	r := file.New(file.WithReadFile(func(name string) ([]byte, error) {
		assert.Equal(t, "virtual.yaml", name)
		return []byte(""), nil
	}))

	values, err := r.Load(context.Background(), map[string]any{"filename": "virtual.yaml"})
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestResolver_Errors(t *testing.T) {
	ctx := context.Background()
	notMapping := file.New(file.WithReadFile(func(string) ([]byte, error) {
		return []byte("- 1\n- 2\n"), nil
	}))

	tests := []struct {
		name    string
		r       *file.Resolver
		options map[string]any
	}{
		{"missing filename", file.New(), map[string]any{}},
		{"missing file", file.New(), map[string]any{"filename": filepath.Join(t.TempDir(), "nope.yaml")}},
		{"not a mapping", notMapping, map[string]any{"filename": "list.yaml"}},
		{"unknown option", file.New(), map[string]any{"file": "x.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.r.Load(ctx, tt.options)
			assert.Error(t, err)
		})
	}
}
