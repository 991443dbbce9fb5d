package app

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nexus-evo/algorec/pkg/curator"
	"github.com/nexus-evo/algorec/pkg/embedding"
	"github.com/nexus-evo/algorec/pkg/engine"
	"github.com/nexus-evo/algorec/pkg/logger"
	"github.com/nexus-evo/algorec/pkg/metrics"
	"github.com/nexus-evo/algorec/pkg/tracer"
)

var curateBatchSize int

var curateCmd = &cobra.Command{
	Use:   "curate [prompt]...",
	Short: "Generate a batch of training examples from the corpus",
	Long: `curate replays task prompts through the recommendation engine and
appends the accepted picks to the configured training dataset. Prompts
given as arguments are marked human provenance; the batch is topped up
with synthetic prompts derived from corpus categories.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log := logger.NewLoggerClient(logger.NewConfig())
		defer log.Zap.Sync()

		store, closeStore, err := newStandaloneStore(log)
		if err != nil {
			return err
		}
		defer closeStore()

		embedder, err := embedding.NewClient(embedding.NewConfig())
		if err != nil {
			return err
		}

		m := metrics.NewMetrics(metrics.NewConfig())
		eng, err := engine.NewEngine(store, embedder, engine.NewConfig(), log, m,
			tracer.NewClient(tracer.NewConfig(), log))
		if err != nil {
			return err
		}

		cfg := curator.NewConfig()
		ledger, err := openLedger(cfg, log)
		if err != nil {
			return err
		}
		defer ledger.Close()

		exporter, err := curator.NewExporter(cfg)
		if err != nil {
			return err
		}

		summary, err := curator.NewCurator(store, eng, ledger, exporter, log, m).
			Curate(ctx, curateBatchSize, args...)
		if err != nil {
			return err
		}

		cmd.Printf("curated %d/%d examples (%d duplicates, %d skipped) to %s\n",
			summary.Generated, summary.Requested, summary.Duplicates, summary.Skipped, cfg.ExportPath)
		return nil
	},
}

func init() {
	curateCmd.Flags().IntVar(&curateBatchSize, "batch-size", 25, "number of examples to generate")
}

func openLedger(cfg curator.Config, log *logger.Logger) (curator.Ledger, error) {
	if cfg.LedgerPath == "" {
		log.Warn("CURATOR_LEDGER_PATH not set, dedup limited to this run", nil, nil)
		return curator.NewMemoryLedger(), nil
	}
	return curator.NewSQLiteLedger(cfg.LedgerPath)
}
