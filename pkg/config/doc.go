/*
Package config provides the configuration values declarations refer to with
{"$config": key, "$default": value}.

A Provider answers lookups by key. Values are loaded by backends (Resolver)
selected by the "configurations" section of a declaration:

	configurations:
	  - backend: yaml
	    filename: settings.yaml
	  - backend: env
	    match: ONION_
	    prefix: env.

The Factory loads every entry in order, prefixes the keys and merges them into
one Map; later entries override earlier ones.
*/
package config
