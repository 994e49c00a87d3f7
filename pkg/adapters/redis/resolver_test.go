package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/onion/pkg/adapters/redis"
	"github.com/aretw0/onion/pkg/config"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_FromClient(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	mr.HSet(redis.DefaultKey, "temperature", "5.5", "threshold", "10", "unit", "celsius")

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	defer client.Close()

	values, err := redis.NewFromClient(client).Load(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"temperature": 5.5, "threshold": 10, "unit": "celsius"}, values)
}

func TestResolver_DialsAddress(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	mr.HSet("site:config", "enabled", "true")

	f := config.NewFactory(config.WithResolvers(redis.New()))
	values, err := f.Build(context.Background(), []map[string]any{
		{"backend": "redis", "addr": mr.Addr(), "key": "site:config", "prefix": "site."},
	})
	require.NoError(t, err)
	assert.Equal(t, config.Map{"site.enabled": true}, values)
}

func TestResolver_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := redis.New().Load(ctx, map[string]any{})
	assert.Error(t, err, "addr is required without a client")

	_, err = redis.New().Load(ctx, map[string]any{"adr": "localhost:6379"})
	assert.Error(t, err, "unknown options are rejected")

	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.Close()

	_, err = redis.NewFromClient(client).Load(ctx, map[string]any{})
	assert.Error(t, err)
}
