package component_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/onion/pkg/component"
	"github.com/aretw0/onion/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_CommitOnce(t *testing.T) {
	ctx := context.Background()
	f, c := newFactory()
	b := f.Begin()

	_, err := b.Add(ctx, "probe", probeClass, nil, nil, nil)
	require.NoError(t, err)
	require.NoError(t, b.Commit(ctx))
	assert.True(t, c.Contains("probe"))

	assert.ErrorIs(t, b.Commit(ctx), domain.ErrBuilderClosed)
	_, err = b.Add(ctx, "other", probeClass, nil, nil, nil)
	assert.ErrorIs(t, err, domain.ErrBuilderClosed)
	b.Abort()
	assert.True(t, c.Contains("probe"), "abort after commit is a no-op")
}

func TestBuilder_Abort(t *testing.T) {
	ctx := context.Background()
	f, c := newFactory()
	b := f.Begin()

	_, err := b.Add(ctx, "probe", probeClass, nil, nil, nil)
	require.NoError(t, err)
	b.Abort()

	assert.Empty(t, f.Pending())
	assert.False(t, f.Hub().Contains("probe!level"))
	assert.ErrorIs(t, b.Commit(ctx), domain.ErrBuilderClosed)
	assert.Equal(t, 0, c.Len())
}

func TestFactory_Scope(t *testing.T) {
	ctx := context.Background()

	t.Run("success commits", func(t *testing.T) {
		f, c := newFactory()
		err := f.Scope(ctx, func(b *component.Builder) error {
			_, err := b.Add(ctx, "probe", probeClass, nil, nil, nil)
			return err
		})
		require.NoError(t, err)
		assert.True(t, c.Contains("probe"))
	})

	t.Run("error aborts", func(t *testing.T) {
		f, c := newFactory()
		stop := errors.New("stop")
		err := f.Scope(ctx, func(b *component.Builder) error {
			if _, err := b.Add(ctx, "probe", probeClass, nil, nil, nil); err != nil {
				return err
			}
			return stop
		})
		assert.ErrorIs(t, err, stop)
		assert.Equal(t, 0, c.Len())
		assert.Empty(t, f.Pending())
	})
}
