package qdrantstore

import (
	"context"

	"go.uber.org/fx"
)

// FXModule wires the Qdrant-backed corpus store into Fx.
//
// It provides *Store (not corpus.Store); the application decides which
// implementation to bind to the interface.
var FXModule = fx.Module("qdrantstore",
	fx.Provide(
		NewConfig,
		NewStore,
	),
	fx.Invoke(RegisterStoreLifecycle),
)

// RegisterStoreLifecycle closes the gRPC connection on shutdown.
func RegisterStoreLifecycle(lc fx.Lifecycle, store *Store) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return store.Close()
		},
	})
}
