package bridge

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the bridge HTTP server settings.
type Config struct {
	// ListenAddr is the bind address, e.g. ":8080".
	ListenAddr string

	// DefaultCurateBatch is used when a curate request omits batch_size.
	DefaultCurateBatch int
}

// NewConfig reads the bridge configuration from environment variables.
func NewConfig() Config {
	cfg := Config{
		ListenAddr:         os.Getenv("BRIDGE_LISTEN_ADDR"),
		DefaultCurateBatch: 25,
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if v := os.Getenv("BRIDGE_CURATE_BATCH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.DefaultCurateBatch = n
		}
	}
	return cfg
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("bridge: listen address must not be empty")
	}
	if c.DefaultCurateBatch <= 0 {
		return fmt.Errorf("bridge: default curate batch must be positive")
	}
	return nil
}
