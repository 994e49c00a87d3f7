package redis

import (
	"context"
	"fmt"

	"github.com/aretw0/onion/pkg/config"
	backend "github.com/redis/go-redis/v9"
)

// DefaultKey is the hash read when the entry does not name one.
const DefaultKey = "onion:config"

// Options are the keys accepted by a "redis" configurations entry.
type Options struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"`
}

// Resolver loads configuration values from the fields of a Redis hash.
// Field values are parsed as YAML scalars.
type Resolver struct {
	client *backend.Client
}

var _ config.Resolver = (*Resolver)(nil)

// New creates a resolver dialing the address named by each entry.
func New() *Resolver {
	return &Resolver{}
}

// NewFromClient creates a resolver reading through an existing client.
// The addr, password and db options of an entry are then ignored.
func NewFromClient(client *backend.Client) *Resolver {
	return &Resolver{client: client}
}

func (r *Resolver) Name() string {
	return "redis"
}

// Load reads every field of the configured hash.
func (r *Resolver) Load(ctx context.Context, options map[string]any) (map[string]any, error) {
	var opts Options
	if err := config.DecodeOptions(options, &opts); err != nil {
		return nil, err
	}
	if opts.Key == "" {
		opts.Key = DefaultKey
	}

	client := r.client
	if client == nil {
		if opts.Addr == "" {
			return nil, fmt.Errorf("addr is required")
		}
		client = backend.NewClient(&backend.Options{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       opts.DB,
		})
		defer client.Close()
	}

	fields, err := client.HGetAll(ctx, opts.Key).Result()
	if err != nil {
		return nil, fmt.Errorf("read hash %q: %w", opts.Key, err)
	}

	values := make(map[string]any, len(fields))
	for k, v := range fields {
		values[k] = config.ParseScalar(v)
	}
	return values, nil
}
