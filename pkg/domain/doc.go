/*
Package domain contains the vocabulary shared by every layer of onion.

It defines the error taxonomy raised while assembling a component graph, the
Path used to point at the offending value of a declaration, and the lifecycle
hooks fired by the component factory. The package is kept free of any other
onion dependency so that every layer can import it.

# Errors

All build errors are sentinels wrapped by a *LocationError (declaration
problems) or a *DependencyError (injection problems). Callers match them with
errors.Is and inspect the context with errors.As.
*/
package domain
