package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"sort"
	"sync"

	"github.com/aretw0/onion/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// ErrUnknownBackend is returned when a configuration entry names no registered backend.
var ErrUnknownBackend = errors.New("unknown config backend")

// Resolver is a configuration backend. Load receives the options of one
// "configurations" entry without the backend and prefix keys.
type Resolver interface {
	Name() string
	Load(ctx context.Context, options map[string]any) (map[string]any, error)
}

type entry struct {
	Backend string `mapstructure:"backend"`
	Prefix  string `mapstructure:"prefix"`
}

// Option configures a Factory.
type Option func(*Factory)

// WithLogger sets the factory logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithResolvers registers backends.
func WithResolvers(resolvers ...Resolver) Option {
	return func(f *Factory) {
		for _, r := range resolvers {
			f.resolvers[r.Name()] = r
		}
	}
}

// Factory builds a Provider from the configurations section of a declaration.
type Factory struct {
	mu        sync.RWMutex
	resolvers map[string]Resolver
	logger    *slog.Logger
}

// NewFactory creates a factory.
func NewFactory(opts ...Option) *Factory {
	f := &Factory{
		resolvers: make(map[string]Resolver),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Register adds a backend, replacing any backend with the same name.
func (f *Factory) Register(r Resolver) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resolvers[r.Name()] = r
}

// Backends returns the registered backend names in sorted order.
func (f *Factory) Backends() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.resolvers))
	for name := range f.resolvers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build loads every entry in order and merges the prefixed values.
func (f *Factory) Build(ctx context.Context, configurations []map[string]any) (Map, error) {
	values := make(Map)
	for i, raw := range configurations {
		path := domain.Path{"configurations"}.Index(i)

		var e entry
		if err := mapstructure.Decode(raw, &e); err != nil {
			return nil, domain.NewLocationError(path, err, "")
		}

		f.mu.RLock()
		r, ok := f.resolvers[e.Backend]
		f.mu.RUnlock()
		if !ok {
			return nil, domain.NewLocationError(path.Key("backend"), ErrUnknownBackend, "%q", e.Backend)
		}

		options := maps.Clone(raw)
		delete(options, "backend")
		delete(options, "prefix")

		loaded, err := r.Load(ctx, options)
		if err != nil {
			return nil, domain.NewLocationError(path, fmt.Errorf("%s backend: %w", e.Backend, err), "")
		}
		for k, v := range loaded {
			values[e.Prefix+k] = v
		}
		f.logger.Debug("configuration loaded", "backend", e.Backend, "prefix", e.Prefix, "keys", len(loaded))
	}
	return values, nil
}

// DecodeOptions decodes backend options into out, rejecting unknown keys.
func DecodeOptions(options map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(options)
}
