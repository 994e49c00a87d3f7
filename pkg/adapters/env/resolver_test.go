package env_test

import (
	"context"
	"testing"

	"github.com/aretw0/onion/pkg/adapters/env"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Load(t *testing.T) {
	r := env.NewWithEnviron(func() []string {
		return []string{"ONION_THRESHOLD=12.5", "ONION_NAME=lab", "ONION_=ignored", "HOME=/root", "BROKEN"}
	})

	tests := []struct {
		name    string
		options map[string]any
		want    map[string]any
	}{
		{
			name:    "match keeps the prefix",
			options: map[string]any{"match": "ONION_"},
			want:    map[string]any{"ONION_THRESHOLD": 12.5, "ONION_NAME": "lab", "ONION_": "ignored"},
		},
		{
			name:    "strip and lower",
			options: map[string]any{"match": "ONION_", "strip": true, "lower": true},
			want:    map[string]any{"threshold": 12.5, "name": "lab"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Load(context.Background(), tt.options)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_ProcessEnvironment(t *testing.T) {
	t.Setenv("ONION_TEST_LIMIT", "3")

	got, err := env.New().Load(context.Background(), map[string]any{"match": "ONION_TEST_", "strip": true})
	require.NoError(t, err)
	assert.Equal(t, 3, got["LIMIT"])
}
