package curator

import (
	"os"
	"strings"
)

// Config describes where curated examples go and how they deduplicate.
type Config struct {
	// LedgerPath is the SQLite dedup ledger location. Empty selects the
	// in-memory ledger (no dedup across restarts).
	LedgerPath string

	// ExportPath is the local JSONL training file.
	ExportPath string

	// MinIO object export, active when Endpoint is set.
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioBucket    string
	MinioPrefix    string
}

// NewConfig reads the curator configuration from environment variables.
func NewConfig() Config {
	cfg := Config{
		LedgerPath:     os.Getenv("CURATOR_LEDGER_PATH"),
		ExportPath:     os.Getenv("CURATOR_EXPORT_PATH"),
		MinioEndpoint:  os.Getenv("CURATOR_MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("CURATOR_MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("CURATOR_MINIO_SECRET_KEY"),
		MinioBucket:    os.Getenv("CURATOR_MINIO_BUCKET"),
		MinioPrefix:    os.Getenv("CURATOR_MINIO_PREFIX"),
	}
	if cfg.ExportPath == "" {
		cfg.ExportPath = "training_data.jsonl"
	}
	if cfg.MinioBucket == "" {
		cfg.MinioBucket = "training-data"
	}
	if v := os.Getenv("CURATOR_MINIO_USE_SSL"); strings.EqualFold(v, "true") {
		cfg.MinioUseSSL = true
	}
	return cfg
}
