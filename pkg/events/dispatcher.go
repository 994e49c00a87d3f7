package events

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/aretw0/onion/pkg/domain"
	"go.uber.org/multierr"
)

// Dispatcher invokes listeners and owns every asynchronous invocation it starts.
type Dispatcher interface {
	// Dispatch runs synchronous listeners inline, in order, and schedules
	// asynchronous ones without waiting for them.
	Dispatch(ctx context.Context, event any, listeners []Invocation) error
	// Run blocks until every tracked asynchronous invocation has completed.
	Run(ctx context.Context) error
}

// Recorder receives dispatch measurements. See observability.Metrics.
type Recorder interface {
	EventDispatched(event string, listeners int)
	ListenerFailed(event string, async bool)
	TaskStarted()
	TaskFinished()
}

// Option configures a DefaultDispatcher.
type Option func(*DefaultDispatcher)

// WithLogger sets the logger used to report listener failures.
func WithLogger(logger *slog.Logger) Option {
	return func(d *DefaultDispatcher) {
		d.logger = logger
	}
}

// WithRecorder sets the recorder notified of every dispatch.
func WithRecorder(r Recorder) Option {
	return func(d *DefaultDispatcher) {
		d.recorder = r
	}
}

// DefaultDispatcher runs asynchronous listeners as goroutines bound to its own
// base context, which is cancelled by Close.
type DefaultDispatcher struct {
	logger   *slog.Logger
	recorder Recorder

	base   context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	pending int
	idle    chan struct{}
	errs    error
	closed  bool
}

// NewDispatcher creates a dispatcher ready to schedule work.
func NewDispatcher(opts ...Option) *DefaultDispatcher {
	base, cancel := context.WithCancel(context.Background())
	d := &DefaultDispatcher{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		base:   base,
		cancel: cancel,
		idle:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch implements Dispatcher.
// Errors of synchronous listeners are combined and returned after all of them ran.
func (d *DefaultDispatcher) Dispatch(ctx context.Context, event any, listeners []Invocation) error {
	name := fmt.Sprintf("%T", event)
	if d.recorder != nil {
		d.recorder.EventDispatched(name, len(listeners))
	}

	var errs error
	for _, l := range listeners {
		if l.IsAsync() {
			if err := d.schedule(name, event, l); err != nil {
				errs = multierr.Append(errs, err)
			}
			continue
		}
		if err := l.Invoke(ctx, event); err != nil {
			d.failed(name, false, err)
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

func (d *DefaultDispatcher) schedule(name string, event any, l Invocation) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return domain.ErrDispatcherClosed
	}
	d.pending++
	d.mu.Unlock()

	if d.recorder != nil {
		d.recorder.TaskStarted()
	}

	go func() {
		err := l.Invoke(d.base, event)
		if err != nil {
			d.failed(name, true, err)
		}
		if d.recorder != nil {
			d.recorder.TaskFinished()
		}
		d.done(err)
	}()
	return nil
}

func (d *DefaultDispatcher) done(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.errs = multierr.Append(d.errs, err)
	d.pending--
	if d.pending == 0 {
		close(d.idle)
		d.idle = make(chan struct{})
	}
}

func (d *DefaultDispatcher) failed(name string, async bool, err error) {
	d.logger.Warn("listener failed", "event", name, "async", async, "error", err)
	if d.recorder != nil {
		d.recorder.ListenerFailed(name, async)
	}
}

// Run implements Dispatcher. Tasks scheduled while draining are awaited too.
// It returns the combined errors of the tasks completed since the previous Run.
func (d *DefaultDispatcher) Run(ctx context.Context) error {
	for {
		d.mu.Lock()
		if d.pending == 0 {
			errs := d.errs
			d.errs = nil
			d.mu.Unlock()
			return errs
		}
		idle := d.idle
		d.mu.Unlock()

		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Pending returns the number of asynchronous invocations still running.
func (d *DefaultDispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Close cancels the context of running tasks and rejects new ones.
// Tasks already running are still tracked by Run.
func (d *DefaultDispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.cancel()
}
