package ingest

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ManifestSource reads algorithm metadata from a JSONL manifest file,
// one RawEntry object per line. Blank lines and lines starting with '#'
// are ignored.
type ManifestSource struct {
	name string
	path string
}

// NewManifestSource creates a source for a manifest file. The collection
// name defaults to the file name without extension.
func NewManifestSource(name, path string) *ManifestSource {
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &ManifestSource{name: name, path: path}
}

func (s *ManifestSource) Name() string { return s.name }

// Entries parses the whole manifest. Individual malformed lines are
// returned as entries with empty required fields, so the pipeline counts
// them as skipped instead of failing the collection.
func (s *ManifestSource) Entries(ctx context.Context) ([]RawEntry, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("manifest %q: %w", s.path, err)
	}
	defer f.Close()

	var entries []RawEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var entry RawEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			// Keep the malformed line visible to the pipeline's skip counter.
			entries = append(entries, RawEntry{})
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("manifest %q: %w", s.path, err)
	}

	return entries, nil
}
