package curator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexus-evo/algorec/pkg/corpus"
	"github.com/nexus-evo/algorec/pkg/engine"
	"github.com/nexus-evo/algorec/pkg/logger"
	"github.com/nexus-evo/algorec/pkg/metrics"
)

// echoRecommender deterministically picks the record whose category
// appears in the prompt, or the first record otherwise.
type echoRecommender struct {
	records []corpus.AlgorithmRecord
}

func (r *echoRecommender) Recommend(_ context.Context, query corpus.TaskQuery) (*engine.Result, error) {
	pick := r.records[0]
	for _, rec := range r.records {
		for _, c := range rec.Categories {
			if strings.Contains(strings.ToLower(query.Text), strings.ReplaceAll(c, "-", " ")) {
				pick = rec
			}
		}
	}
	return &engine.Result{
		Status: engine.StatusOK,
		Items: []engine.Recommendation{{
			Record:    pick,
			Score:     0.9,
			Rationale: "Use " + pick.Name + " because it is the closest semantic match in the corpus.",
		}},
	}, nil
}

// captureExporter collects every exported example.
type captureExporter struct {
	examples []TrainingExample
}

func (e *captureExporter) Export(_ context.Context, examples []TrainingExample) error {
	e.examples = append(e.examples, examples...)
	return nil
}

func seedCorpus(t *testing.T, categories ...string) (corpus.Store, []corpus.AlgorithmRecord) {
	t.Helper()
	store := corpus.NewMemoryStore()
	var records []corpus.AlgorithmRecord
	for i, category := range categories {
		record := corpus.AlgorithmRecord{
			ID:          corpus.RecordID("test", category),
			Name:        strings.ToUpper(category),
			Collection:  "test",
			Language:    "go",
			Description: category + " implementation",
			Categories:  []string{category},
			Vector:      []float32{float32(i + 1), 1},
			UpdatedAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		}
		require.NoError(t, store.Upsert(context.Background(), record))
		records = append(records, record)
	}
	return store, records
}

func newTestCurator(store corpus.Store, rec Recommender, exporter Exporter) *Curator {
	log := logger.NewLoggerClient(logger.Config{Level: "error", ServiceName: "test"})
	return NewCurator(store, rec, NewMemoryLedger(), exporter, log, metrics.NewMetrics(metrics.Config{ServiceName: "test"}))
}

func TestCurate_EmptyCorpus(t *testing.T) {
	cur := newTestCurator(corpus.NewMemoryStore(), &echoRecommender{}, &captureExporter{})

	_, err := cur.Curate(context.Background(), 5)
	assert.ErrorIs(t, err, ErrInsufficientCorpus)
}

func TestCurate_InvalidBatchSize(t *testing.T) {
	store, _ := seedCorpus(t, "hash")
	cur := newTestCurator(store, &echoRecommender{}, &captureExporter{})

	_, err := cur.Curate(context.Background(), 0)
	assert.ErrorIs(t, err, corpus.ErrValidation)
}

func TestCurate_HumanPrompts(t *testing.T) {
	store, records := seedCorpus(t, "hash")
	exporter := &captureExporter{}
	cur := newTestCurator(store, &echoRecommender{records: records}, exporter)

	summary, err := cur.Curate(context.Background(), 2, "hash a password", "hash a file")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Generated)

	require.Len(t, exporter.examples, 2)
	for _, ex := range exporter.examples {
		assert.Equal(t, ProvenanceHuman, ex.Provenance)
		assert.Equal(t, records[0].ID, ex.AlgorithmID)
		assert.NotEmpty(t, ex.Rationale)
	}
}

func TestCurate_SyntheticFillsBatch(t *testing.T) {
	store, records := seedCorpus(t, "hash", "symmetric-cipher", "signature")
	exporter := &captureExporter{}
	cur := newTestCurator(store, &echoRecommender{records: records}, exporter)

	summary, err := cur.Curate(context.Background(), 6, "hash a password")
	require.NoError(t, err)
	assert.Equal(t, 6, summary.Requested)

	var human, synthetic int
	for _, ex := range exporter.examples {
		switch ex.Provenance {
		case ProvenanceHuman:
			human++
		case ProvenanceSynthetic:
			synthetic++
		}
	}
	assert.Equal(t, 1, human)
	assert.Greater(t, synthetic, 0, "the batch is topped up with synthetic prompts")
}

// flakyExporter fails a configurable number of times before delegating
// to a capture exporter.
type flakyExporter struct {
	failures int
	inner    captureExporter
}

func (e *flakyExporter) Export(ctx context.Context, examples []TrainingExample) error {
	if e.failures > 0 {
		e.failures--
		return errors.New("object store unavailable")
	}
	return e.inner.Export(ctx, examples)
}

func TestCurate_RetryAfterExportFailure(t *testing.T) {
	store, records := seedCorpus(t, "hash")
	exporter := &flakyExporter{failures: 1}
	cur := newTestCurator(store, &echoRecommender{records: records}, exporter)

	_, err := cur.Curate(context.Background(), 1, "hash a password")
	require.Error(t, err)
	assert.Empty(t, exporter.inner.examples)

	// A pair whose export failed must still be exportable on retry.
	summary, err := cur.Curate(context.Background(), 1, "hash a password")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Generated)
	assert.Zero(t, summary.Duplicates)
	require.Len(t, exporter.inner.examples, 1)
	assert.Equal(t, records[0].ID, exporter.inner.examples[0].AlgorithmID)
}

func TestCurate_DedupAcrossInvocations(t *testing.T) {
	store, records := seedCorpus(t, "hash")
	exporter := &captureExporter{}
	cur := newTestCurator(store, &echoRecommender{records: records}, exporter)

	first, err := cur.Curate(context.Background(), 1, "hash a password")
	require.NoError(t, err)
	assert.Equal(t, 1, first.Generated)

	// Same prompt modulo case and whitespace normalizes to the same key.
	second, err := cur.Curate(context.Background(), 1, "  Hash   a PASSWORD ")
	require.NoError(t, err)
	assert.Zero(t, second.Generated)
	assert.Equal(t, 1, second.Duplicates)
	assert.Len(t, exporter.examples, 1)
}

func TestSyntheticPrompts_RoundRobinCategories(t *testing.T) {
	store, _ := seedCorpus(t, "hash", "signature")

	prompts, err := syntheticPrompts(context.Background(), store, 4)
	require.NoError(t, err)
	require.Len(t, prompts, 4)

	var hash, signature int
	for _, p := range prompts {
		if strings.Contains(p, "hash") {
			hash++
		}
		if strings.Contains(p, "signature") {
			signature++
		}
	}
	assert.Equal(t, 2, hash, "categories alternate so none is starved")
	assert.Equal(t, 2, signature)
}

func TestNormalizeTask(t *testing.T) {
	assert.Equal(t, "hash a password", NormalizeTask("  Hash   a \t PASSWORD\n"))
	assert.Equal(t, "", NormalizeTask("   "))
}

func TestMemoryLedger(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()

	fresh, err := ledger.Reserve(ctx, "task", "algo")
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = ledger.Reserve(ctx, "task", "algo")
	require.NoError(t, err)
	assert.False(t, fresh)

	fresh, err = ledger.Reserve(ctx, "task", "other-algo")
	require.NoError(t, err)
	assert.True(t, fresh, "dedup keys on the pair, not the task alone")
}

func TestSQLiteLedger_PersistsAcrossReopen(t *testing.T) {
	path := t.TempDir() + "/ledger.db"
	ctx := context.Background()

	ledger, err := NewSQLiteLedger(path)
	require.NoError(t, err)
	fresh, err := ledger.Reserve(ctx, "task", "algo")
	require.NoError(t, err)
	assert.True(t, fresh)
	require.NoError(t, ledger.Close())

	reopened, err := NewSQLiteLedger(path)
	require.NoError(t, err)
	defer reopened.Close()

	fresh, err = reopened.Reserve(ctx, "task", "algo")
	require.NoError(t, err)
	assert.False(t, fresh, "reservations survive restarts")
}
