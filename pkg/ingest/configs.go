package ingest

import (
	"os"
	"strings"
	"time"
)

// Config describes which source collections to ingest and how often.
type Config struct {
	// Manifests are JSONL manifest paths, one collection each. Entries
	// may carry a "name=" prefix to override the collection name.
	Manifests []string

	// Repos are local repository checkouts to scan, same "name=" syntax.
	Repos []string

	// RefreshInterval enables periodic re-ingestion when positive.
	RefreshInterval time.Duration
}

// NewConfig reads the ingestion configuration from environment variables.
//
//	INGEST_MANIFESTS  comma-separated, e.g. "kryptor=/data/kryptor.jsonl,/data/extra.jsonl"
//	INGEST_REPOS      comma-separated, e.g. "cryptography=/repos/Cryptography"
//	INGEST_REFRESH    Go duration, e.g. "30m"; empty disables periodic runs
func NewConfig() Config {
	cfg := Config{
		Manifests: splitList(os.Getenv("INGEST_MANIFESTS")),
		Repos:     splitList(os.Getenv("INGEST_REPOS")),
	}
	if v := os.Getenv("INGEST_REFRESH"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.RefreshInterval = d
		}
	}
	return cfg
}

// Sources materializes the configured collections.
func (c Config) Sources() []Source {
	var sources []Source
	for _, spec := range c.Manifests {
		name, path := splitSpec(spec)
		sources = append(sources, NewManifestSource(name, path))
	}
	for _, spec := range c.Repos {
		name, path := splitSpec(spec)
		sources = append(sources, NewRepoSource(name, path))
	}
	return sources
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func splitSpec(spec string) (name, path string) {
	if idx := strings.Index(spec, "="); idx > 0 {
		return spec[:idx], spec[idx+1:]
	}
	return "", spec
}
