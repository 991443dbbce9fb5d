package ingest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/sync/errgroup"

	"github.com/nexus-evo/algorec/pkg/corpus"
	"github.com/nexus-evo/algorec/pkg/logger"
	"github.com/nexus-evo/algorec/pkg/metrics"
)

// embedMaxTries bounds per-entry embedding retries before the entry is
// marked failed-and-skipped.
const embedMaxTries = 3

// Embedder is the slice of the embedding client the pipeline needs.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Pipeline normalizes raw source entries into corpus records, computes
// embeddings, and upserts them into the store. After a collection is
// read successfully, records whose entry disappeared from the source
// are deleted so the corpus mirrors the sources.
//
// Collections are ingested in parallel and are isolated failure domains:
// a source that cannot be read is reported in the run summary and never
// aborts the other collections. The last run summary is retained for the
// ingestionStatus endpoint.
type Pipeline struct {
	store    corpus.Store
	embedder Embedder
	log      *logger.Logger
	metrics  *metrics.Metrics

	mu      sync.RWMutex
	lastRun *RunSummary
}

// NewPipeline constructs an ingestion pipeline over the given store.
func NewPipeline(store corpus.Store, embedder Embedder, log *logger.Logger, m *metrics.Metrics) *Pipeline {
	return &Pipeline{store: store, embedder: embedder, log: log, metrics: m}
}

// Run ingests all sources and returns the run summary. The summary is
// also retained as the pipeline's last-run status. Run itself only
// errors when the context is cancelled; collection and entry failures
// live in the summary.
func (p *Pipeline) Run(ctx context.Context, sources ...Source) (*RunSummary, error) {
	run := &RunSummary{StartedAt: time.Now().UTC()}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	for _, source := range sources {
		g.Go(func() error {
			summary := p.ingestCollection(gctx, source)
			mu.Lock()
			run.Collections = append(run.Collections, summary)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sortCollections(run.Collections)
	run.FinishedAt = time.Now().UTC()

	p.mu.Lock()
	p.lastRun = run
	p.mu.Unlock()

	if n, err := p.store.Count(ctx); err == nil {
		p.metrics.SetCorpusSize(n)
	}

	totals := run.Totals()
	p.log.Info("ingestion run finished", nil, map[string]interface{}{
		"collections": len(run.Collections),
		"seen":        totals.Seen,
		"upserted":    totals.Upserted,
		"unchanged":   totals.Unchanged,
		"skipped":     totals.Skipped,
		"failed":      totals.Failed,
		"deleted":     totals.Deleted,
	})
	return run, nil
}

// LastRun returns the most recent run summary, or nil when no run has
// completed yet.
func (p *Pipeline) LastRun() *RunSummary {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastRun
}

// ingestCollection processes one source end to end.
func (p *Pipeline) ingestCollection(ctx context.Context, source Source) CollectionSummary {
	summary := CollectionSummary{Collection: source.Name()}

	entries, err := source.Entries(ctx)
	if err != nil {
		summary.Err = err.Error()
		p.log.Error("collection unreachable", err, map[string]interface{}{
			"collection": source.Name(),
		})
		return summary
	}

	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if ctx.Err() != nil {
			summary.Err = ctx.Err().Error()
			return summary
		}
		summary.Seen++

		outcome, id := p.ingestEntry(ctx, source.Name(), entry)
		if id != "" {
			seen[id] = true
		}

		switch outcome {
		case outcomeUpserted:
			summary.Upserted++
		case outcomeUnchanged:
			summary.Unchanged++
		case outcomeSkipped:
			summary.Skipped++
		case outcomeFailed:
			summary.Failed++
		}
	}

	summary.Deleted = p.reconcile(ctx, source.Name(), seen)

	p.log.Info("collection ingested", nil, map[string]interface{}{
		"collection": source.Name(),
		"seen":       summary.Seen,
		"upserted":   summary.Upserted,
		"unchanged":  summary.Unchanged,
		"skipped":    summary.Skipped,
		"failed":     summary.Failed,
		"deleted":    summary.Deleted,
	})
	return summary
}

// reconcile deletes stored records of this collection whose entry no
// longer appears in the source. It only runs after a successful source
// read; an unreachable source must never wipe its collection.
func (p *Pipeline) reconcile(ctx context.Context, collection string, seen map[string]bool) int {
	var stale []corpus.AlgorithmRecord
	for record, err := range p.store.ScanAll(ctx) {
		if err != nil {
			p.log.Warn("corpus scan failed during reconciliation", err, map[string]interface{}{
				"collection": collection,
			})
			return 0
		}
		if record.Collection == collection && !seen[record.ID] {
			stale = append(stale, record)
		}
	}

	deleted := 0
	for _, record := range stale {
		if err := p.store.Delete(ctx, record.ID); err != nil {
			p.log.Warn("stale record delete failed", err, map[string]interface{}{
				"collection": collection,
				"name":       record.Name,
			})
			continue
		}
		p.metrics.IncIngested(collection, "deleted")
		p.log.Debug("stale record deleted", nil, map[string]interface{}{
			"collection": collection,
			"name":       record.Name,
		})
		deleted++
	}
	return deleted
}

type entryOutcome int

const (
	outcomeUpserted entryOutcome = iota
	outcomeUnchanged
	outcomeSkipped
	outcomeFailed
)

// ingestEntry normalizes and writes one entry. The embedding is only
// recomputed when the description text changed; unchanged entries are
// not rewritten at all.
//
// The returned id identifies the entry for reconciliation. It is empty
// only when the entry has no name and therefore no identity; a failed
// or incomplete entry still exists in the source and must not have its
// stored record reconciled away.
func (p *Pipeline) ingestEntry(ctx context.Context, collection string, entry RawEntry) (entryOutcome, string) {
	if strings.TrimSpace(entry.Name) == "" {
		p.metrics.IncIngested(collection, "skipped")
		return outcomeSkipped, ""
	}
	id := corpus.RecordID(collection, entry.Name)

	if strings.TrimSpace(entry.Description) == "" {
		p.metrics.IncIngested(collection, "skipped")
		return outcomeSkipped, id
	}

	record := corpus.AlgorithmRecord{
		ID:          id,
		Name:        strings.TrimSpace(entry.Name),
		Collection:  collection,
		Language:    strings.ToLower(strings.TrimSpace(entry.Language)),
		Description: strings.TrimSpace(entry.Description),
		Categories:  normalizeCategories(entry.Categories),
		UpdatedAt:   time.Now().UTC(),
	}

	existing, err := p.store.Get(ctx, record.ID)
	haveExisting := err == nil

	if haveExisting && existing.Description == record.Description {
		if sameMetadata(existing, record) {
			p.metrics.IncIngested(collection, "unchanged")
			return outcomeUnchanged, id
		}
		// Metadata changed but the description didn't: reuse the stored
		// vector instead of calling the provider again.
		record.Vector = existing.Vector
	} else {
		vector, err := p.embedWithRetry(ctx, record.Description)
		if err != nil {
			p.log.Warn("entry embedding failed", err, map[string]interface{}{
				"collection": collection,
				"name":       record.Name,
			})
			p.metrics.IncIngested(collection, "failed")
			return outcomeFailed, id
		}
		record.Vector = vector
	}

	if err := p.store.Upsert(ctx, record); err != nil {
		p.log.Warn("entry upsert failed", err, map[string]interface{}{
			"collection": collection,
			"name":       record.Name,
		})
		p.metrics.IncIngested(collection, "failed")
		return outcomeFailed, id
	}

	p.metrics.IncIngested(collection, "upserted")
	return outcomeUpserted, id
}

// embedWithRetry calls the provider with bounded exponential backoff.
func (p *Pipeline) embedWithRetry(ctx context.Context, text string) ([]float32, error) {
	return backoff.Retry(ctx, func() ([]float32, error) {
		return p.embedder.Embed(ctx, text)
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(embedMaxTries))
}

func sameMetadata(a, b corpus.AlgorithmRecord) bool {
	if a.Name != b.Name || a.Language != b.Language || len(a.Categories) != len(b.Categories) {
		return false
	}
	for i := range a.Categories {
		if a.Categories[i] != b.Categories[i] {
			return false
		}
	}
	return true
}

func normalizeCategories(categories []string) []string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}
