package config

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a key is absent from a provider.
var ErrNotFound = errors.New("config not found")

// Provider answers configuration lookups.
type Provider interface {
	Get(key string) (any, error)
	Contains(key string) bool
}

// Map is a static Provider.
type Map map[string]any

func (m Map) Get(key string) (any, error) {
	v, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return v, nil
}

func (m Map) Contains(key string) bool {
	_, ok := m[key]
	return ok
}

// Chain asks its providers in order; the first one holding the key wins.
type Chain []Provider

func (c Chain) Get(key string) (any, error) {
	for _, p := range c {
		v, err := p.Get(key)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
}

func (c Chain) Contains(key string) bool {
	for _, p := range c {
		if p.Contains(key) {
			return true
		}
	}
	return false
}

// Empty is a provider without keys.
var Empty Provider = Map{}

// ParseScalar converts a textual value to the YAML scalar it spells, so that
// "5" becomes an int and "true" a bool. Unparsable text is returned as is.
func ParseScalar(s string) any {
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil || v == nil {
		return s
	}
	switch v.(type) {
	case map[string]any, []any:
		return s
	}
	return v
}
