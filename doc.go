/*
Package onion assembles applications from declarations.

An application is a graph of named components connected by typed properties
and events. The graph is described in a YAML document, built by the component
factory and then run until every component returns or Stop is called.

# Usage

Register the component classes, load a declaration and run it:

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/onion"
		"github.com/aretw0/onion/pkg/registry"
	)

	func main() {
		reg := registry.NewRegistry()
		reg.Register(thermometerClass, checkerClass)

		app := onion.New(onion.WithRegistry(reg))

		ctx := context.Background()
		if err := app.LoadFile(ctx, "greenhouse.yaml"); err != nil {
			log.Fatal(err)
		}
		if err := app.Run(ctx); err != nil {
			log.Fatal(err)
		}
	}

The document lists the components, their constructor arguments and the
initial value of their fields:

	name: greenhouse
	configurations:
	  - backend: env
	    prefix: env.
	    match: GREENHOUSE_
	components:
	  - name: thermometer
	    cls: demo.Thermometer
	    props:
	      temperature: {$config: env.GREENHOUSE_TEMPERATURE, $default: 5.0}
	  - name: checker
	    cls: demo.ThresholdChecker
	    props:
	      threshold: 10.0
	      temperature: {$ref: thermometer, $prop: temperature}

Components implementing component.Setup are prepared concurrently before any
of them runs. Components implementing component.Runnable run concurrently next
to the event dispatcher; Stop asks each of them to return.
*/
package onion
