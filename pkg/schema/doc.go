// Package schema defines the declaration document describing a component graph
// and decodes it from YAML.
//
// A document lists named components by class, together with their constructor
// arguments and the initial values of their reactive fields:
//
//	name: greenhouse
//	version: "1"
//	components:
//	  - name: thermometer
//	    cls: demo.Thermometer
//	    props:
//	      temperature: {$config: temperature, $default: 5.0}
//	  - name: checker
//	    cls: demo.ThresholdChecker
//	    props:
//	      threshold: 10.0
//	      temperature: {$ref: thermometer, $prop: temperature}
//
// Values of shape {$ref, $prop} decode to a Reference, mappings carrying both
// "name" and "cls" decode to a nested *Component and {$config, $default} is
// replaced by the value of the configuration provider given to Decode.
package schema
