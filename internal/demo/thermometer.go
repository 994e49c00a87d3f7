package demo

import (
	"context"
	"sync/atomic"

	"github.com/aretw0/onion/pkg/component"
	"github.com/aretw0/onion/pkg/events"
)

// Thermometer holds the current temperature.
type Thermometer struct {
	component.Base
	Temperature component.Property[float64]
}

var ThermometerClass = component.NewClass[Thermometer]("demo.Thermometer", nil,
	component.WithFields(
		component.PropertyField("temperature", func(t *Thermometer) *component.Property[float64] { return &t.Temperature }, component.Default(0.0)),
	),
)

// ThresholdChecker compares the temperature it receives with a threshold and
// reports the outcome of every comparison on Exceeded.
type ThresholdChecker struct {
	component.Base
	Temperature *component.Input[float64]
	Threshold   component.Property[float64]
	Exceeded    *events.Source[bool]
}

var ThresholdCheckerClass = component.NewClass[ThresholdChecker]("demo.ThresholdChecker",
	func(c *ThresholdChecker, _ component.Args) error {
		c.Temperature.Listen(func(ctx context.Context, e component.ValueChanged[float64]) error {
			return c.Exceeded.Dispatch(ctx, c.ExceedThreshold(e.Value))
		})
		return nil
	},
	component.WithFields(
		component.InputField("temperature", func(c *ThresholdChecker) **component.Input[float64] { return &c.Temperature }, component.Default(10.0)),
		component.PropertyField("threshold", func(c *ThresholdChecker) *component.Property[float64] { return &c.Threshold }),
		component.EventField("exceeded", func(c *ThresholdChecker) **events.Source[bool] { return &c.Exceeded }),
	),
)

// ExceedThreshold reports whether v is above the threshold.
func (c *ThresholdChecker) ExceedThreshold(v float64) bool {
	return c.Threshold.Value() < v
}

// Actuator counts the times it was told to work.
type Actuator struct {
	component.Base
	Event  *events.Source[bool]
	worked atomic.Int64
}

var ActuatorClass = component.NewClass[Actuator]("demo.Actuator",
	func(a *Actuator, _ component.Args) error {
		a.Event.Listen(func(_ context.Context, on bool) error {
			if on {
				a.worked.Add(1)
			}
			return nil
		})
		return nil
	},
	component.WithFields(
		component.EventField("event", func(a *Actuator) **events.Source[bool] { return &a.Event }, component.Wired()),
	),
)

// Worked returns the number of work requests received.
func (a *Actuator) Worked() int {
	return int(a.worked.Load())
}
