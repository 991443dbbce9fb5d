package logger

import (
	"context"

	"go.uber.org/fx"
)

// FXModule wires the logger into an Fx application.
//
// It provides:
//   - Config   (NewConfig)
//   - *Logger  (NewLoggerClient)
//   - a lifecycle hook that flushes buffered entries on shutdown
var FXModule = fx.Module("logger",
	fx.Provide(
		NewConfig,
		NewLoggerClient,
	),
	fx.Invoke(RegisterLoggerLifecycle),
)

// RegisterLoggerLifecycle flushes the Zap logger when the application stops,
// so no buffered entries are lost on shutdown.
func RegisterLoggerLifecycle(lc fx.Lifecycle, client *Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Zap.Sync()
		},
	})
}
