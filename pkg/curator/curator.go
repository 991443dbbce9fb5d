package curator

import (
	"context"
	"fmt"
	"time"

	"github.com/nexus-evo/algorec/pkg/corpus"
	"github.com/nexus-evo/algorec/pkg/engine"
	"github.com/nexus-evo/algorec/pkg/logger"
	"github.com/nexus-evo/algorec/pkg/metrics"
)

// Recommender is the slice of the engine the curator needs.
type Recommender interface {
	Recommend(ctx context.Context, query corpus.TaskQuery) (*engine.Result, error)
}

// Curator turns the live corpus into instruction-tuning examples by
// replaying task prompts through the recommendation engine and
// exporting the accepted picks.
//
// Examples deduplicate on the normalized task plus algorithm id via the
// ledger, so repeated batches and overlapping prompt sets never export
// the same pair twice.
type Curator struct {
	store       corpus.Store
	recommender Recommender
	ledger      Ledger
	exporter    Exporter
	log         *logger.Logger
	metrics     *metrics.Metrics
}

// NewCurator constructs a curator.
func NewCurator(store corpus.Store, rec Recommender, ledger Ledger, exporter Exporter, log *logger.Logger, m *metrics.Metrics) *Curator {
	return &Curator{
		store:       store,
		recommender: rec,
		ledger:      ledger,
		exporter:    exporter,
		log:         log,
		metrics:     m,
	}
}

// Curate produces up to batchSize training examples.
//
// Prompts passed by the caller are used first and marked human
// provenance; the remainder of the batch is filled with synthetic
// prompts derived from the corpus's categories. An empty corpus yields
// ErrInsufficientCorpus. Prompts whose recommendation fails or returns
// no usable candidate are counted as skipped, never aborting the batch.
func (c *Curator) Curate(ctx context.Context, batchSize int, prompts ...string) (*Summary, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("%w: batch size must be positive", corpus.ErrValidation)
	}

	count, err := c.store.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrInsufficientCorpus
	}

	type sourcedPrompt struct {
		text       string
		provenance string
	}
	var batch []sourcedPrompt
	for _, p := range prompts {
		if len(batch) == batchSize {
			break
		}
		if NormalizeTask(p) == "" {
			continue
		}
		batch = append(batch, sourcedPrompt{text: p, provenance: ProvenanceHuman})
	}
	if missing := batchSize - len(batch); missing > 0 {
		synthetic, err := syntheticPrompts(ctx, c.store, missing)
		if err != nil {
			return nil, err
		}
		for _, p := range synthetic {
			batch = append(batch, sourcedPrompt{text: p, provenance: ProvenanceSynthetic})
		}
	}
	if len(batch) == 0 {
		return nil, ErrInsufficientCorpus
	}

	summary := &Summary{Requested: len(batch)}
	var examples []TrainingExample

	for _, p := range batch {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := c.recommender.Recommend(ctx, corpus.TaskQuery{Text: p.text})
		if err != nil {
			summary.Skipped++
			c.log.Warn("curation prompt failed", err, map[string]interface{}{"provenance": p.provenance})
			continue
		}
		if result.Status != engine.StatusOK || len(result.Items) == 0 {
			summary.Skipped++
			continue
		}
		top := result.Items[0]

		fresh, err := c.ledger.Reserve(ctx, NormalizeTask(p.text), top.Record.ID)
		if err != nil {
			return nil, err
		}
		if !fresh {
			summary.Duplicates++
			continue
		}

		examples = append(examples, TrainingExample{
			Task:          p.text,
			AlgorithmID:   top.Record.ID,
			AlgorithmName: top.Record.Name,
			Rationale:     top.Rationale,
			Provenance:    p.provenance,
			CreatedAt:     time.Now().UTC(),
		})
	}

	// Reservations become final only once the batch is exported. A
	// failed export gives them back, so the same pairs are curated
	// again on retry instead of vanishing as duplicates.
	if err := c.exporter.Export(ctx, examples); err != nil {
		for _, ex := range examples {
			if relErr := c.ledger.Release(context.WithoutCancel(ctx), NormalizeTask(ex.Task), ex.AlgorithmID); relErr != nil {
				c.log.Error("failed to release curation reservation", relErr, map[string]interface{}{
					"algorithm": ex.AlgorithmID,
				})
			}
		}
		return nil, err
	}

	for _, ex := range examples {
		c.metrics.IncCurated(ex.Provenance)
	}
	summary.Generated = len(examples)
	c.log.Info("curation batch complete", nil, map[string]interface{}{
		"requested":  summary.Requested,
		"generated":  summary.Generated,
		"duplicates": summary.Duplicates,
		"skipped":    summary.Skipped,
	})
	return summary, nil
}
