package onion_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/onion"
	"github.com/aretw0/onion/internal/demo"
	"github.com/aretw0/onion/pkg/component"
	"github.com/aretw0/onion/pkg/registry"
)

// ExampleApplication_Load builds a thermometer and a checker following it,
// then moves the temperature past the threshold.
func ExampleApplication_Load() {
	reg := registry.NewRegistry()
	demo.Register(reg)
	app := onion.New(onion.WithRegistry(reg))

	ctx := context.Background()
	err := app.Load(ctx, []byte(`
components:
  - name: thermometer
    cls: demo.Thermometer
    props:
      temperature: 5.0
  - name: checker
    cls: demo.ThresholdChecker
    props:
      threshold: 10.0
      temperature: {$ref: thermometer, $prop: temperature}
`))
	if err != nil {
		log.Fatal(err)
	}

	thermometer, _ := component.Lookup[*demo.Thermometer](app.Components(), "thermometer")
	checker, _ := component.Lookup[*demo.ThresholdChecker](app.Components(), "checker")

	fmt.Println(checker.ExceedThreshold(checker.Temperature.Value()))
	if err := thermometer.Temperature.Set(ctx, 15.0); err != nil {
		log.Fatal(err)
	}
	fmt.Println(checker.Temperature.Value(), checker.ExceedThreshold(checker.Temperature.Value()))
	// Output:
	// false
	// 15 true
}
