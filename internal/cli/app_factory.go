package cli

import (
	"context"
	"log/slog"

	"github.com/aretw0/onion"
	"github.com/aretw0/onion/internal/demo"
	"github.com/aretw0/onion/pkg/domain"
	"github.com/aretw0/onion/pkg/observability"
	"github.com/aretw0/onion/pkg/registry"
	"github.com/prometheus/client_golang/prometheus"
)

// createApplication initializes an application with standard CLI conventions:
// the demo classes are registered and metrics are recorded in reg.
func createApplication(opts RunOptions, logger *slog.Logger, reg prometheus.Registerer) *onion.Application {
	classes := registry.NewRegistry()
	demo.Register(classes)

	appOpts := []onion.Option{
		onion.WithLogger(logger),
		onion.WithRegistry(classes),
	}
	if reg != nil {
		appOpts = append(appOpts, onion.WithMetrics(observability.NewMetrics(reg)))
	}
	if opts.Debug {
		appOpts = append(appOpts, onion.WithLifecycleHooks(createDebugHooks(logger)))
	}
	return onion.New(appOpts...)
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnComponentAdded: func(ctx context.Context, e *domain.ComponentEvent) {
			logger.Debug("Component Added", "name", e.Name, "class", e.Class)
		},
		OnComponentInitialized: func(ctx context.Context, e *domain.ComponentEvent) {
			logger.Debug("Component Initialized", "name", e.Name, "class", e.Class)
		},
		OnBuildFailed: func(ctx context.Context, e *domain.BuildEvent) {
			logger.Debug("Build Failed", "pending", e.Pending, "err", e.Err)
		},
	}
}
