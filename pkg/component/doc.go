/*
Package component implements the reactive fields of a component and the
factory assembling components into a graph.

# Reactive fields

A Property holds one observable value. Value is the owning implementation and
View the read-only one used when a field is fed with another component's
property. Input is a property that can be driven from the outside and Output
fans a value out to a set of inputs.

# Descriptors

Component types declare their reactive fields and their injected constructor
parameters once, through a Class:

	var ThermometerClass = component.NewClass[Thermometer]("demo.Thermometer", nil,
		component.WithFields(
			component.PropertyField("temperature", func(t *Thermometer) *component.Property[float64] {
				return &t.Temperature
			}, component.Default(20.0)),
		),
	)

# Factory

Factory.Add allocates an instance and injects its fields right away; the
constructors run later, in dependency order, when Factory.Initialize (or
Builder.Commit) is called.
*/
package component
