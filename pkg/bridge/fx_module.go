package bridge

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/fx"

	"github.com/nexus-evo/algorec/pkg/logger"
)

// FXModule wires the bridge HTTP server into Fx.
//
// It provides:
//   - Config   (NewConfig)
//   - *Server  (NewServer)
//   - a lifecycle hook serving the router until shutdown
var FXModule = fx.Module("bridge",
	fx.Provide(
		NewConfig,
		NewServer,
	),
	fx.Invoke(RegisterBridgeLifecycle),
)

// RegisterBridgeLifecycle starts the HTTP listener on start and drains
// it on stop.
func RegisterBridgeLifecycle(lc fx.Lifecycle, s *Server, cfg Config, log *logger.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: s.Router(),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("bridge listening", nil, map[string]interface{}{"addr": cfg.ListenAddr})
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("bridge server stopped", err, nil)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
	return nil
}
