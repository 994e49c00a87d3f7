package file

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/onion/pkg/config"
	"gopkg.in/yaml.v3"
)

// Options are the keys accepted by a "yaml" configurations entry.
type Options struct {
	Filename string `mapstructure:"filename"`
}

// ReadFileFunc reads a whole file.
type ReadFileFunc func(name string) ([]byte, error)

// Resolver loads the top-level keys of a YAML document.
type Resolver struct {
	readFile ReadFileFunc
}

var _ config.Resolver = (*Resolver)(nil)

// Option configures a Resolver.
type Option func(*Resolver)

// WithReadFile replaces the function used to read files.
func WithReadFile(fn ReadFileFunc) Option {
	return func(r *Resolver) {
		r.readFile = fn
	}
}

// New creates a resolver reading from the local filesystem.
func New(opts ...Option) *Resolver {
	r := &Resolver{readFile: os.ReadFile}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) Name() string {
	return "yaml"
}

// Load parses the file named by the entry. The document must be a mapping.
func (r *Resolver) Load(_ context.Context, options map[string]any) (map[string]any, error) {
	var opts Options
	if err := config.DecodeOptions(options, &opts); err != nil {
		return nil, err
	}
	if opts.Filename == "" {
		return nil, fmt.Errorf("filename is required")
	}

	data, err := r.readFile(opts.Filename)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", opts.Filename, err)
	}

	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse %s: expected a mapping: %w", opts.Filename, err)
	}
	if values == nil {
		values = make(map[string]any)
	}
	return values, nil
}
