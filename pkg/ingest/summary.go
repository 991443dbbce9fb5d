package ingest

import (
	"sort"
	"time"
)

// CollectionSummary reports the outcome of ingesting one source collection.
type CollectionSummary struct {
	Collection string `json:"collection"`
	Seen       int    `json:"seen"`
	Upserted   int    `json:"upserted"`
	Unchanged  int    `json:"unchanged"`
	Skipped    int    `json:"skipped"`
	Failed     int    `json:"failed"`

	// Deleted counts records removed because their entry disappeared
	// from the source collection.
	Deleted int `json:"deleted"`

	// Err is set when the whole collection failed (unreachable source,
	// parse failure). Entry-level failures only bump Failed.
	Err string `json:"error,omitempty"`
}

// RunSummary aggregates the per-collection outcomes of one ingestion run.
type RunSummary struct {
	StartedAt   time.Time           `json:"startedAt"`
	FinishedAt  time.Time           `json:"finishedAt"`
	Collections []CollectionSummary `json:"collections"`
}

// Totals sums the per-collection counters.
func (r *RunSummary) Totals() CollectionSummary {
	var total CollectionSummary
	total.Collection = "total"
	for _, c := range r.Collections {
		total.Seen += c.Seen
		total.Upserted += c.Upserted
		total.Unchanged += c.Unchanged
		total.Skipped += c.Skipped
		total.Failed += c.Failed
		total.Deleted += c.Deleted
	}
	return total
}

// sortCollections orders summaries by collection name for stable output.
func sortCollections(summaries []CollectionSummary) {
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Collection < summaries[j].Collection
	})
}
