/*
Package events provides the listener and dispatch primitives every reactive
field of a component is built on.

A Source owns an ordered list of listeners and hands them to a Dispatcher when
an event is dispatched. Synchronous listeners run inline, in registration
order, before Dispatch returns. Asynchronous listeners run as tracked
goroutines; Dispatcher.Run blocks until all of them have finished.

	d := events.NewDispatcher()
	src := events.NewSource[int](d)
	src.ListenAsync(func(ctx context.Context, v int) error { ... })
	_ = src.Dispatch(ctx, 5)
	_ = d.Run(ctx) // waits for the async listener
*/
package events
