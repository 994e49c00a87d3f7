package env

import (
	"context"
	"os"
	"strings"

	"github.com/aretw0/onion/pkg/config"
)

// Options are the keys accepted by an "env" configurations entry.
type Options struct {
	// Match selects the variables whose name starts with it.
	Match string `mapstructure:"match"`
	// Strip removes Match from the loaded keys.
	Strip bool `mapstructure:"strip"`
	// Lower lowercases the loaded keys.
	Lower bool `mapstructure:"lower"`
}

// Resolver loads environment variables. Values are parsed as YAML scalars.
type Resolver struct {
	environ func() []string
}

var _ config.Resolver = (*Resolver)(nil)

// New creates a resolver reading the process environment.
func New() *Resolver {
	return NewWithEnviron(os.Environ)
}

// NewWithEnviron creates a resolver reading "KEY=value" pairs from environ.
func NewWithEnviron(environ func() []string) *Resolver {
	return &Resolver{environ: environ}
}

func (r *Resolver) Name() string {
	return "env"
}

func (r *Resolver) Load(_ context.Context, options map[string]any) (map[string]any, error) {
	var opts Options
	if err := config.DecodeOptions(options, &opts); err != nil {
		return nil, err
	}

	values := make(map[string]any)
	for _, kv := range r.environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, opts.Match) {
			continue
		}
		if opts.Strip {
			key = strings.TrimPrefix(key, opts.Match)
		}
		if opts.Lower {
			key = strings.ToLower(key)
		}
		if key == "" {
			continue
		}
		values[key] = config.ParseScalar(value)
	}
	return values, nil
}
