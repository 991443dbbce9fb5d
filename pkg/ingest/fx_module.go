package ingest

import (
	"context"
	"time"

	"go.uber.org/fx"

	"github.com/nexus-evo/algorec/pkg/logger"
)

// FXModule wires the ingestion pipeline into Fx.
//
// It provides:
//   - Config     (NewConfig)
//   - *Pipeline  (NewPipeline)
//   - a lifecycle hook running the initial ingestion and, when
//     configured, periodic refresh runs
var FXModule = fx.Module("ingest",
	fx.Provide(
		NewConfig,
		NewPipeline,
	),
	fx.Invoke(RegisterIngestLifecycle),
)

// RegisterIngestLifecycle kicks off an initial ingestion run in the
// background on start and keeps refreshing on the configured interval
// until shutdown.
func RegisterIngestLifecycle(lc fx.Lifecycle, p *Pipeline, cfg Config, log *logger.Logger) {
	sources := cfg.Sources()
	if len(sources) == 0 {
		log.Warn("no ingestion sources configured", nil, nil)
		return
	}

	runCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if _, err := p.Run(runCtx, sources...); err != nil {
					log.Error("initial ingestion run aborted", err, nil)
				}

				if cfg.RefreshInterval <= 0 {
					return
				}
				ticker := time.NewTicker(cfg.RefreshInterval)
				defer ticker.Stop()
				for {
					select {
					case <-runCtx.Done():
						return
					case <-ticker.C:
						if _, err := p.Run(runCtx, sources...); err != nil {
							log.Error("ingestion refresh aborted", err, nil)
						}
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			return nil
		},
	})
}
