package tracer

import (
	"context"

	"go.uber.org/fx"
)

// FXModule wires tracing into an Fx application.
var FXModule = fx.Module("tracer",
	fx.Provide(
		NewConfig,
		NewClient,
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// RegisterTracerLifecycle flushes and shuts down the tracer provider on stop.
func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *Tracer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			tracer.logger.Info("shutting down tracer", nil, nil)
			if tracer.provider == nil {
				return nil
			}
			return tracer.provider.Shutdown(ctx)
		},
	})
}
