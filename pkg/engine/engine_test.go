package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexus-evo/algorec/pkg/corpus"
	"github.com/nexus-evo/algorec/pkg/embedding"
	"github.com/nexus-evo/algorec/pkg/logger"
	"github.com/nexus-evo/algorec/pkg/metrics"
	"github.com/nexus-evo/algorec/pkg/tracer"
)

// fakeEmbedder returns canned vectors by exact text, falling back to a
// default vector for unknown texts.
type fakeEmbedder struct {
	vectors  map[string][]float32
	fallback []float32
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return f.fallback, nil
}

// failingEmbedder always fails with the provider sentinel.
type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, fmt.Errorf("%w: upstream 503", embedding.ErrProvider)
}

// slowEmbedder blocks until the context expires.
type slowEmbedder struct{}

func (slowEmbedder) Embed(ctx context.Context, _ string) ([]float32, error) {
	<-ctx.Done()
	return nil, fmt.Errorf("%w: %w", embedding.ErrProvider, ctx.Err())
}

func newTestEngine(t *testing.T, store corpus.Store, embedder Embedder) *Engine {
	t.Helper()
	log := logger.NewLoggerClient(logger.Config{Level: "error", ServiceName: "test"})
	eng, err := NewEngine(store, embedder, Config{
		SimilarityWeight: 0.80,
		CategoryBonus:    0.15,
		LanguageBonus:    0.05,
		CandidatePool:    20,
		TopN:             5,
		MinSimilarity:    0.30,
	}, log, metrics.NewMetrics(metrics.Config{ServiceName: "test"}),
		tracer.NewClient(tracer.Config{ServiceName: "test"}, log))
	require.NoError(t, err)
	return eng
}

func seedRecord(t *testing.T, store corpus.Store, id, language string, categories []string, description string, vector []float32) {
	t.Helper()
	require.NoError(t, store.Upsert(context.Background(), corpus.AlgorithmRecord{
		ID:          id,
		Name:        id,
		Collection:  "test",
		Language:    language,
		Categories:  categories,
		Description: description,
		Vector:      vector,
		UpdatedAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}))
}

func TestRecommend_EmptyCorpus(t *testing.T) {
	eng := newTestEngine(t, corpus.NewMemoryStore(), &fakeEmbedder{fallback: []float32{1, 0}})

	result, err := eng.Recommend(context.Background(), corpus.TaskQuery{Text: "anything"})
	require.NoError(t, err, "an empty corpus is not an error")
	assert.Equal(t, StatusNoCandidates, result.Status)
	assert.Empty(t, result.Items)
}

func TestRecommend_EmptyTask(t *testing.T) {
	eng := newTestEngine(t, corpus.NewMemoryStore(), &fakeEmbedder{fallback: []float32{1, 0}})

	_, err := eng.Recommend(context.Background(), corpus.TaskQuery{})
	assert.ErrorIs(t, err, corpus.ErrValidation)
}

func TestRecommend_CategoryBonusBeatsBaseline(t *testing.T) {
	store := corpus.NewMemoryStore()
	seedRecord(t, store, "aes-256-gcm", "go", []string{"symmetric-cipher"},
		"authenticated symmetric encryption", []float32{1, 0})

	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"encrypt data with authentication": {1, 0},
	}}
	eng := newTestEngine(t, store, embedder)

	baseline, err := eng.Recommend(context.Background(), corpus.TaskQuery{
		Text: "encrypt data with authentication",
	})
	require.NoError(t, err)
	require.Len(t, baseline.Items, 1)

	hinted, err := eng.Recommend(context.Background(), corpus.TaskQuery{
		Text:     "encrypt data with authentication",
		Category: "symmetric-cipher",
	})
	require.NoError(t, err)
	require.Len(t, hinted.Items, 1)

	assert.Equal(t, "aes-256-gcm", hinted.Items[0].Record.ID)
	assert.Greater(t, hinted.Items[0].Score, baseline.Items[0].Score,
		"category bonus must lift the score above the similarity-only baseline")
	assert.LessOrEqual(t, hinted.Items[0].Score, 1.0)
}

func TestRecommend_LanguageHintFiltersAndBoosts(t *testing.T) {
	store := corpus.NewMemoryStore()
	seedRecord(t, store, "argon2-go", "go", []string{"kdf"}, "password hashing", []float32{1, 0})
	seedRecord(t, store, "argon2-py", "python", []string{"kdf"}, "password hashing", []float32{1, 0})

	eng := newTestEngine(t, store, &fakeEmbedder{fallback: []float32{1, 0}})

	result, err := eng.Recommend(context.Background(), corpus.TaskQuery{
		Text:     "hash passwords",
		Language: "Python",
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 1, "non-matching languages are filtered out")
	assert.Equal(t, "argon2-py", result.Items[0].Record.ID)
}

func TestRecommend_Idempotent(t *testing.T) {
	store := corpus.NewMemoryStore()
	seedRecord(t, store, "sha3-256", "go", []string{"hash"}, "cryptographic hash function", []float32{0.9, 0.1})
	seedRecord(t, store, "blake3", "rust", []string{"hash"}, "fast cryptographic hash", []float32{0.8, 0.2})

	eng := newTestEngine(t, store, &fakeEmbedder{fallback: []float32{1, 0}})

	first, err := eng.Recommend(context.Background(), corpus.TaskQuery{Text: "hash some data"})
	require.NoError(t, err)
	second, err := eng.Recommend(context.Background(), corpus.TaskQuery{Text: "hash some data"})
	require.NoError(t, err)

	assert.Equal(t, first, second, "fixed corpus and query must rank identically")
}

func TestRecommend_LowConfidence(t *testing.T) {
	store := corpus.NewMemoryStore()
	seedRecord(t, store, "unrelated", "go", []string{"compression"}, "lossless compression", []float32{0, 1})

	eng := newTestEngine(t, store, &fakeEmbedder{fallback: []float32{1, 0}})

	result, err := eng.Recommend(context.Background(), corpus.TaskQuery{Text: "sign a message"})
	require.NoError(t, err)
	assert.Equal(t, StatusLowConfidence, result.Status)
	require.Len(t, result.Items, 1, "low confidence still returns the candidates")
}

func TestRecommend_TopNTruncation(t *testing.T) {
	store := corpus.NewMemoryStore()
	for i := 0; i < 10; i++ {
		seedRecord(t, store, fmt.Sprintf("algo-%02d", i), "go", []string{"hash"},
			"hash function variant", []float32{1, float32(i) * 0.01})
	}

	eng := newTestEngine(t, store, &fakeEmbedder{fallback: []float32{1, 0}})

	result, err := eng.Recommend(context.Background(), corpus.TaskQuery{Text: "hash data"})
	require.NoError(t, err)
	assert.Len(t, result.Items, 5)
	for i := 1; i < len(result.Items); i++ {
		assert.GreaterOrEqual(t, result.Items[i-1].Score, result.Items[i].Score)
	}
}

func TestRecommend_ProviderError(t *testing.T) {
	store := corpus.NewMemoryStore()
	seedRecord(t, store, "a", "go", []string{"hash"}, "hash", []float32{1, 0})

	eng := newTestEngine(t, store, failingEmbedder{})

	_, err := eng.Recommend(context.Background(), corpus.TaskQuery{Text: "hash data"})
	assert.ErrorIs(t, err, embedding.ErrProvider)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestRecommend_DeadlineExceeded(t *testing.T) {
	store := corpus.NewMemoryStore()
	seedRecord(t, store, "a", "go", []string{"hash"}, "hash", []float32{1, 0})

	eng := newTestEngine(t, store, slowEmbedder{})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := eng.Recommend(ctx, corpus.TaskQuery{Text: "hash data"})
	assert.ErrorIs(t, err, ErrTimeout, "an expired deadline is a timeout, not a provider error")
}

func TestRecommend_RationaleMentionsSignals(t *testing.T) {
	store := corpus.NewMemoryStore()
	seedRecord(t, store, "aes-256-gcm", "go", []string{"symmetric-cipher"},
		"authenticated symmetric encryption cipher", []float32{1, 0})

	eng := newTestEngine(t, store, &fakeEmbedder{fallback: []float32{1, 0}})

	result, err := eng.Recommend(context.Background(), corpus.TaskQuery{
		Text:     "authenticated encryption for data at rest",
		Category: "symmetric-cipher",
		Language: "Go",
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)

	rationale := result.Items[0].Rationale
	assert.Contains(t, rationale, "Use aes-256-gcm because")
	assert.Contains(t, rationale, "symmetric-cipher")
	assert.Contains(t, rationale, "go")
}

type staticSummarizer struct{}

func (staticSummarizer) Summarize(record corpus.AlgorithmRecord, _ corpus.TaskQuery) string {
	return "pick " + record.Name
}

func TestRecommend_SwappableSummarizer(t *testing.T) {
	store := corpus.NewMemoryStore()
	seedRecord(t, store, "sha3-256", "go", []string{"hash"}, "hash function", []float32{1, 0})

	eng := newTestEngine(t, store, &fakeEmbedder{fallback: []float32{1, 0}}).
		WithSummarizer(staticSummarizer{})

	result, err := eng.Recommend(context.Background(), corpus.TaskQuery{Text: "hash data"})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "pick sha3-256", result.Items[0].Rationale)
}

func TestConfigValidate(t *testing.T) {
	valid := Config{SimilarityWeight: 0.8, CategoryBonus: 0.15, LanguageBonus: 0.05, CandidatePool: 20, TopN: 5, MinSimilarity: 0.3}
	assert.NoError(t, valid.Validate())

	invalid := valid
	invalid.TopN = 50
	assert.Error(t, invalid.Validate(), "top-n beyond the candidate pool is rejected")

	invalid = valid
	invalid.SimilarityWeight = 0
	assert.Error(t, invalid.Validate())
}
