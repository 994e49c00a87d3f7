package domain

import "errors"

// Build errors raised while processing a declaration or assembling components.
var (
	// ErrDuplicateComponentName is returned when two components share a name.
	ErrDuplicateComponentName = errors.New("duplicate component name")

	// ErrUnknownReference is returned when a reference names a component (or a field of
	// a component) that does not exist.
	ErrUnknownReference = errors.New("unknown reference")

	// ErrReferenceTypeMismatch is returned when a referenced component or field cannot be
	// assigned to the field that refers to it.
	ErrReferenceTypeMismatch = errors.New("reference type mismatch")

	// ErrMissingPropertyValue is returned when a property has no value, no default and is
	// not optional.
	ErrMissingPropertyValue = errors.New("missing property value")

	// ErrMissingInputWiring is returned when a field that must be driven by another
	// component is not wired to one.
	ErrMissingInputWiring = errors.New("missing input wiring")

	// ErrUnknownProperty is returned when props name a field the class does not declare.
	ErrUnknownProperty = errors.New("unknown property")

	// ErrInvalidPropertyValue is returned when a props value cannot be converted to the
	// element type of its field.
	ErrInvalidPropertyValue = errors.New("invalid property value")

	// ErrUnknownClass is returned when a class name is not registered.
	ErrUnknownClass = errors.New("unknown class")

	// ErrDependencyCycle is returned when components depend on each other in a loop.
	ErrDependencyCycle = errors.New("dependency cycle")

	// ErrDeclarationReused is returned when a processed declaration is built twice.
	ErrDeclarationReused = errors.New("declaration already built")

	// ErrMissingArgument is returned when a constructor argument is absent.
	ErrMissingArgument = errors.New("missing argument")
)

// Injection errors raised by the component factory.
var (
	// ErrDependencyNotFound is returned when no instance satisfies a dependency.
	ErrDependencyNotFound = errors.New("dependency not found")

	// ErrAmbiguousDependency is returned when a singular dependency has several candidates.
	ErrAmbiguousDependency = errors.New("ambiguous dependency")

	// ErrBuilderClosed is returned when a builder is used after Commit or Abort.
	ErrBuilderClosed = errors.New("builder closed")
)

// Runtime errors raised by the reactive substrate.
var (
	// ErrInvalidMutation is returned when writing to a read-only property view.
	ErrInvalidMutation = errors.New("invalid mutation")

	// ErrListenerNotFound is returned when removing a listener that was never added.
	ErrListenerNotFound = errors.New("listener not found")

	// ErrDispatcherClosed is returned when scheduling work on a closed dispatcher.
	ErrDispatcherClosed = errors.New("dispatcher closed")
)
