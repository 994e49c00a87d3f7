package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Path locates a value inside a declaration, e.g. "thermometer.props.temperature"
// or "components.2".
type Path []string

// Key returns a copy of the path extended with a map key.
func (p Path) Key(key string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, key)
}

// Index returns a copy of the path extended with a list index.
func (p Path) Index(i int) Path {
	return p.Key(strconv.Itoa(i))
}

func (p Path) String() string {
	return strings.Join(p, ".")
}

// LocationError reports a build error at an exact location of the declaration.
type LocationError struct {
	Path   Path
	Detail string
	Err    error
}

// NewLocationError wraps err with the location it was found at.
func NewLocationError(path Path, err error, format string, args ...any) *LocationError {
	return &LocationError{
		Path:   path,
		Detail: fmt.Sprintf(format, args...),
		Err:    err,
	}
}

func (e *LocationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Path, e.Err, e.Detail)
}

func (e *LocationError) Unwrap() error {
	return e.Err
}

// DependencyError reports a constructor dependency that could not be resolved.
// Candidates lists the names of the matching instances for ambiguous requests.
type DependencyError struct {
	Component  string
	Param      string
	Type       string
	Candidates []string
	Err        error
}

func (e *DependencyError) Error() string {
	msg := fmt.Sprintf("component %q: parameter %q (%s): %v", e.Component, e.Param, e.Type, e.Err)
	if len(e.Candidates) > 0 {
		msg += fmt.Sprintf(" (candidates: %s)", strings.Join(e.Candidates, ", "))
	}
	return msg
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}
