package embedding

import (
	"context"

	"go.uber.org/fx"
)

// FXModule wires the embedding system into Fx.
//
// It provides:
//   - *Config  (NewConfig)
//   - *Client  (NewClient)
//   - a lifecycle hook that closes the provider on shutdown
var FXModule = fx.Module("embedding",
	fx.Provide(
		NewConfig,
		NewClient,
	),
	fx.Invoke(RegisterEmbeddingLifecycle),
)

// RegisterEmbeddingLifecycle ensures the Client and its provider are
// cleaned up on application shutdown.
func RegisterEmbeddingLifecycle(lc fx.Lifecycle, client *Client) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}
