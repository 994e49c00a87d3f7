package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/aretw0/onion/internal/logging"
	httpadapter "github.com/aretw0/onion/pkg/adapters/http"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
)

// ErrForcedExit is returned when a second interrupt arrives while the
// components are stopping.
var ErrForcedExit = errors.New("forced exit on second interrupt")

// RunOptions configures the 'run' command.
type RunOptions struct {
	File      string
	LogLevel  string
	LogFormat string
	// Listen is the address of the introspection endpoint; empty disables it.
	Listen string
	Debug  bool
	// Grace bounds how long Stop may take after an interrupt.
	Grace time.Duration
}

// Execute builds the declaration in opts.File and runs it until every
// component returns or the process is interrupted.
func Execute(opts RunOptions) error {
	logger, err := newLogger(opts)
	if err != nil {
		return err
	}

	sm := NewSignalManager()
	defer sm.Stop()
	ctx := sm.Context()

	reg := prometheus.NewRegistry()
	app := createApplication(opts, logger, reg)
	if err := app.LoadFile(ctx, opts.File); err != nil {
		return err
	}

	if opts.Listen != "" {
		srv, err := serve(opts.Listen, httpadapter.NewHandler(app, reg, logger), logger)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	done := make(chan error, 1)
	go func() {
		done <- app.Run(context.WithoutCancel(ctx))
	}()

	select {
	case err := <-done:
		if stopErr := app.Stop(context.Background()); stopErr != nil {
			logger.Warn("stop failed", "error", stopErr)
		}
		return err
	case <-ctx.Done():
		logger.Info("received interrupt signal, shutting down...")
	}

	// A second interrupt abandons the graceful stop.
	sm.Reset()
	force := sm.Context().Done()

	grace := opts.Grace
	if grace <= 0 {
		grace = 5 * time.Second
	}
	stopCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	stopped := make(chan error, 1)
	go func() {
		stopped <- app.Stop(stopCtx)
	}()

	var stopErr error
	select {
	case stopErr = <-stopped:
	case <-stopCtx.Done():
		return fmt.Errorf("components did not stop within %s", grace)
	case <-force:
		return ErrForcedExit
	}

	select {
	case err := <-done:
		return multierr.Append(err, stopErr)
	case <-stopCtx.Done():
		return fmt.Errorf("components did not stop within %s", grace)
	case <-force:
		return ErrForcedExit
	}
}

func newLogger(opts RunOptions) (*slog.Logger, error) {
	level, err := logging.ParseLevel(opts.LogLevel)
	if err != nil {
		return nil, err
	}
	if opts.Debug {
		level = slog.LevelDebug
	}
	return logging.New(level, logging.Format(opts.LogFormat))
}

func serve(addr string, handler http.Handler, logger *slog.Logger) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("introspection endpoint listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("introspection endpoint failed", "error", err)
		}
	}()
	return srv, nil
}
