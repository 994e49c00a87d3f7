// Package demo holds the greenhouse components used by the CLI examples and
// the end-to-end tests.
package demo

import (
	"github.com/aretw0/onion/pkg/component"
	"github.com/aretw0/onion/pkg/registry"
)

// Classes returns every demo class.
func Classes() []*component.Class {
	return []*component.Class{
		ThermometerClass,
		ThresholdCheckerClass,
		ActuatorClass,
		AccumulatorClass,
		TemperatureSimulatorClass,
		RelayClass,
	}
}

// Register adds the demo classes to r.
func Register(r *registry.Registry) {
	r.Register(Classes()...)
}
