package qdrantstore

import (
	"os"
	"strconv"
	"time"
)

// Config holds connection and collection settings for the Qdrant-backed
// corpus store.
type Config struct {
	// Endpoint is the hostname of the Qdrant server, e.g. "localhost".
	Endpoint string

	// Port is the gRPC port of the Qdrant server. Defaults to 6334.
	Port int

	// APIKey is the optional authentication token for secured deployments.
	APIKey string

	// Collection is the collection holding the algorithm corpus.
	Collection string

	// VectorSize is the embedding dimension of the collection. It must
	// match the configured embedding model.
	VectorSize uint64

	// Timeout bounds individual requests.
	Timeout time.Duration

	// CheckCompatibility controls the client/server version check.
	CheckCompatibility bool
}

// NewConfig reads the Qdrant configuration from environment variables.
func NewConfig() *Config {
	cfg := &Config{
		Endpoint:           os.Getenv("QDRANT_ENDPOINT"),
		Port:               6334,
		APIKey:             os.Getenv("QDRANT_API_KEY"),
		Collection:         os.Getenv("QDRANT_COLLECTION"),
		VectorSize:         1536,
		Timeout:            5 * time.Second,
		CheckCompatibility: false,
	}

	if v := os.Getenv("QDRANT_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Port = n
		}
	}
	if cfg.Collection == "" {
		cfg.Collection = "algorithms"
	}
	if v := os.Getenv("QDRANT_VECTOR_SIZE"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil && n > 0 {
			cfg.VectorSize = n
		}
	}

	return cfg
}
