package curator

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/fx"

	"github.com/nexus-evo/algorec/pkg/logger"
)

// FXModule wires the curator into Fx.
//
// It provides:
//   - Config    (NewConfig)
//   - Ledger    (SQLite when CURATOR_LEDGER_PATH is set, memory otherwise)
//   - Exporter  (local JSONL, fanned out to MinIO when configured)
//   - *Curator  (NewCurator)
var FXModule = fx.Module("curator",
	fx.Provide(
		NewConfig,
		NewLedger,
		NewExporter,
		NewCurator,
	),
)

// NewLedger selects the ledger backend from the configuration and closes
// it on shutdown.
func NewLedger(lc fx.Lifecycle, cfg Config, log *logger.Logger) (Ledger, error) {
	var ledger Ledger
	if cfg.LedgerPath != "" {
		sqlLedger, err := NewSQLiteLedger(cfg.LedgerPath)
		if err != nil {
			return nil, err
		}
		ledger = sqlLedger
		log.Info("curation ledger opened", nil, map[string]interface{}{"path": cfg.LedgerPath})
	} else {
		ledger = NewMemoryLedger()
		log.Warn("using in-memory curation ledger, dedup does not survive restarts", nil, nil)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return ledger.Close()
		},
	})
	return ledger, nil
}

// NewExporter builds the export chain from the configuration.
func NewExporter(cfg Config) (Exporter, error) {
	file := NewFileExporter(cfg.ExportPath)
	if cfg.MinioEndpoint == "" {
		return file, nil
	}

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("curator: minio client: %w", err)
	}
	return NewFanoutExporter(file, NewObjectExporter(client, cfg.MinioBucket, cfg.MinioPrefix)), nil
}
