package ingest

import "context"

// RawEntry is one algorithm's metadata as delivered by a source
// collection, before normalization and embedding.
type RawEntry struct {
	// Name is the algorithm's display name. Required.
	Name string `json:"name"`

	// Language is the implementation language tag.
	Language string `json:"language"`

	// Description is the free text the embedding is computed from. Required.
	Description string `json:"description"`

	// Categories are the entry's category tags.
	Categories []string `json:"categories"`
}

// Source is one collection of raw algorithm metadata.
//
// Entries must be finite and restartable: calling Entries again re-reads
// the collection from the beginning. A source failure is isolated to its
// own collection; the pipeline keeps ingesting the others.
type Source interface {
	// Name is the source collection tag stamped onto every record.
	Name() string

	// Entries reads the collection's raw entries.
	Entries(ctx context.Context) ([]RawEntry, error)
}
