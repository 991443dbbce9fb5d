package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nexus-evo/algorec/pkg/corpus"
	"github.com/nexus-evo/algorec/pkg/embedding"
	"github.com/nexus-evo/algorec/pkg/ingest"
	"github.com/nexus-evo/algorec/pkg/logger"
	"github.com/nexus-evo/algorec/pkg/metrics"
	"github.com/nexus-evo/algorec/pkg/qdrantstore"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run one ingestion pass over the configured source collections",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log := logger.NewLoggerClient(logger.NewConfig())
		defer log.Zap.Sync()

		cfg := ingest.NewConfig()
		sources := cfg.Sources()
		if len(sources) == 0 {
			return fmt.Errorf("no ingestion sources configured, set INGEST_MANIFESTS or INGEST_REPOS")
		}

		store, closeStore, err := newStandaloneStore(log)
		if err != nil {
			return err
		}
		defer closeStore()

		embedder, err := embedding.NewClient(embedding.NewConfig())
		if err != nil {
			return err
		}

		pipeline := ingest.NewPipeline(store, embedder, log, metrics.NewMetrics(metrics.NewConfig()))
		summary, err := pipeline.Run(ctx, sources...)
		if err != nil {
			return err
		}

		totals := summary.Totals()
		cmd.Printf("ingested %d collections: %d seen, %d upserted, %d unchanged, %d skipped, %d failed\n",
			len(summary.Collections), totals.Seen, totals.Upserted, totals.Unchanged, totals.Skipped, totals.Failed)
		return nil
	},
}

// newStandaloneStore builds the corpus store for one-shot commands,
// outside the Fx lifecycle.
func newStandaloneStore(log *logger.Logger) (corpus.Store, func() error, error) {
	cfg := qdrantstore.NewConfig()
	if cfg.Endpoint == "" {
		return nil, nil, fmt.Errorf("QDRANT_ENDPOINT must be set, a one-shot run against the in-memory store would be lost")
	}
	store, err := qdrantstore.NewStore(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}
