package app

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/nexus-evo/algorec/pkg/bridge"
	"github.com/nexus-evo/algorec/pkg/corpus"
	"github.com/nexus-evo/algorec/pkg/curator"
	"github.com/nexus-evo/algorec/pkg/embedding"
	"github.com/nexus-evo/algorec/pkg/engine"
	"github.com/nexus-evo/algorec/pkg/ingest"
	"github.com/nexus-evo/algorec/pkg/logger"
	"github.com/nexus-evo/algorec/pkg/metrics"
	"github.com/nexus-evo/algorec/pkg/qdrantstore"
	"github.com/nexus-evo/algorec/pkg/tracer"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the full service: ingestion, engine and bridge API",
	RunE: func(_ *cobra.Command, _ []string) error {
		app := fx.New(serviceOptions()...)
		app.Run()
		return nil
	},
}

// serviceOptions assembles the Fx graph of the full service.
func serviceOptions() []fx.Option {
	return []fx.Option{
		logger.FXModule,
		metrics.FXModule,
		tracer.FXModule,
		embedding.FXModule,
		engine.FXModule,
		ingest.FXModule,
		curator.FXModule,
		bridge.FXModule,
		fx.Provide(
			NewCorpusStore,
			func(c *embedding.Client) ingest.Embedder { return c },
			func(c *embedding.Client) engine.Embedder { return c },
			func(e *engine.Engine) bridge.Recommender { return e },
			func(e *engine.Engine) curator.Recommender { return e },
			func(c *curator.Curator) bridge.Curator { return c },
			func(p *ingest.Pipeline) bridge.IngestionReporter { return p },
		),
	}
}

// NewCorpusStore selects the corpus backend. A configured Qdrant
// endpoint wins; without one the service runs on the in-memory store,
// which is only suitable for development and tests.
func NewCorpusStore(lc fx.Lifecycle, log *logger.Logger) (corpus.Store, error) {
	cfg := qdrantstore.NewConfig()
	if cfg.Endpoint == "" {
		log.Warn("QDRANT_ENDPOINT not set, using in-memory corpus store", nil, nil)
		return corpus.NewMemoryStore(), nil
	}

	store, err := qdrantstore.NewStore(cfg, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return store.Close()
		},
	})
	return store, nil
}
