package demo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/onion/pkg/component"
	"github.com/aretw0/onion/pkg/events"
)

// TemperatureSimulator seeds a thermometer and, while running, moves its
// temperature by Delta every Interval for Steps steps.
type TemperatureSimulator struct {
	component.Base
	Thermometer *Thermometer

	Initial float64
	simulation

	stopOnce sync.Once
	stop     chan struct{}
}

var TemperatureSimulatorClass = component.NewClass[TemperatureSimulator]("demo.TemperatureSimulator",
	func(s *TemperatureSimulator, args component.Args) (err error) {
		if s.Initial, err = component.ArgAt[float64](args, 0); err != nil {
			return fmt.Errorf("initial temperature: %w", err)
		}
		if s.Thermometer, err = component.Arg[*Thermometer](args, "thermometer"); err != nil {
			return err
		}
		s.simulation = simulation{Delta: 1}
		if err := args.Decode(&s.simulation); err != nil {
			return err
		}
		s.stop = make(chan struct{})
		return nil
	},
	component.WithParams(component.Inject[*Thermometer]("thermometer")),
)

type simulation struct {
	Delta    float64       `onion:"delta"`
	Steps    int           `onion:"steps"`
	Interval time.Duration `onion:"interval"`
}

// Setup implements component.Setup.
func (s *TemperatureSimulator) Setup(ctx context.Context) error {
	return s.Thermometer.Temperature.Set(ctx, s.Initial)
}

// Run implements component.Runnable.
func (s *TemperatureSimulator) Run(ctx context.Context) error {
	var tick <-chan time.Time
	if s.Interval > 0 {
		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for i := 0; i < s.Steps; i++ {
		if tick != nil {
			select {
			case <-tick:
			case <-s.stop:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		t := s.Thermometer.Temperature
		if err := t.Set(ctx, t.Value()+s.Delta); err != nil {
			return err
		}
	}
	return nil
}

// Stop implements component.Runnable.
func (s *TemperatureSimulator) Stop(context.Context) error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

// Accumulator collects every checker of the application.
type Accumulator struct {
	component.Base
	Checkers   []*ThresholdChecker
	Dispatcher events.Dispatcher
}

var AccumulatorClass = component.NewClass[Accumulator]("demo.Accumulator",
	func(a *Accumulator, args component.Args) (err error) {
		if a.Checkers, err = component.All[*ThresholdChecker](args, "checkers"); err != nil {
			return err
		}
		a.Dispatcher, err = component.Arg[events.Dispatcher](args, "dispatcher")
		return err
	},
	component.WithParams(
		component.InjectAll[*ThresholdChecker]("checkers"),
		component.Inject[events.Dispatcher]("dispatcher"),
	),
)

// Relay forwards every value of its source to the inputs its output is
// connected to.
type Relay struct {
	component.Base
	Source *component.Input[float64]
	Out    *component.Output[float64]
}

var RelayClass = component.NewClass[Relay]("demo.Relay",
	func(r *Relay, _ component.Args) error {
		r.Source.Listen(func(ctx context.Context, e component.ValueChanged[float64]) error {
			return r.Out.Send(ctx, e.Value)
		})
		return nil
	},
	component.WithFields(
		component.InputField("source", func(r *Relay) **component.Input[float64] { return &r.Source }, component.Wired()),
		component.OutputField("out", func(r *Relay) **component.Output[float64] { return &r.Out }),
	),
)
