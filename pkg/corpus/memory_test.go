package corpus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(id string, vector []float32) AlgorithmRecord {
	return AlgorithmRecord{
		ID:          id,
		Name:        id,
		Collection:  "test",
		Vector:      vector,
		Description: "test record",
		UpdatedAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestMemoryStore_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Upsert(ctx, record("a", []float32{1, 0})))

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)
	assert.Equal(t, []float32{1, 0}, got.Vector)
}

func TestMemoryStore_UpsertLastWriteWins(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	first := record("a", []float32{1, 0})
	first.Description = "old"
	require.NoError(t, store.Upsert(ctx, first))

	second := record("a", []float32{0, 1})
	second.Description = "new"
	require.NoError(t, store.Upsert(ctx, second))

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Description)
	assert.Equal(t, []float32{0, 1}, got.Vector)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemoryStore_UpsertValidation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	err := store.Upsert(ctx, record("", []float32{1}))
	assert.ErrorIs(t, err, ErrValidation)

	err = store.Upsert(ctx, record("a", nil))
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, store.Upsert(ctx, record("a", []float32{1, 0})))
	err = store.Upsert(ctx, record("b", []float32{1, 0, 0}))
	assert.ErrorIs(t, err, ErrValidation, "dimension mismatch must be rejected")
}

func TestMemoryStore_GetMissing(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_DeleteAbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Delete(ctx, "absent"))

	require.NoError(t, store.Upsert(ctx, record("a", []float32{1, 0})))
	require.NoError(t, store.Delete(ctx, "a"))
	_, err := store.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_NearestNeighborsRanking(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Upsert(ctx, record("exact", []float32{1, 0})))
	require.NoError(t, store.Upsert(ctx, record("close", []float32{0.9, 0.1})))
	require.NoError(t, store.Upsert(ctx, record("orthogonal", []float32{0, 1})))

	got, err := store.NearestNeighbors(ctx, []float32{1, 0}, 2, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "exact", got[0].Record.ID)
	assert.Equal(t, "close", got[1].Record.ID)
	assert.Greater(t, got[0].Similarity, got[1].Similarity)
}

func TestMemoryStore_NearestNeighborsTieBreak(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	older := record("b-older", []float32{1, 0})
	older.UpdatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := record("c-newer", []float32{1, 0})
	newer.UpdatedAt = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	sameTime := record("a-same", []float32{1, 0})
	sameTime.UpdatedAt = older.UpdatedAt

	require.NoError(t, store.Upsert(ctx, older))
	require.NoError(t, store.Upsert(ctx, newer))
	require.NoError(t, store.Upsert(ctx, sameTime))

	got, err := store.NearestNeighbors(ctx, []float32{1, 0}, 3, nil)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Most recent first, then id order among equal timestamps.
	assert.Equal(t, "c-newer", got[0].Record.ID)
	assert.Equal(t, "a-same", got[1].Record.ID)
	assert.Equal(t, "b-older", got[2].Record.ID)
}

func TestMemoryStore_NearestNeighborsFilter(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	goRecord := record("go", []float32{1, 0})
	goRecord.Language = "Go"
	goRecord.Categories = []string{"hashing"}
	pyRecord := record("py", []float32{1, 0})
	pyRecord.Language = "Python"
	pyRecord.Categories = []string{"encryption"}

	require.NoError(t, store.Upsert(ctx, goRecord))
	require.NoError(t, store.Upsert(ctx, pyRecord))

	got, err := store.NearestNeighbors(ctx, []float32{1, 0}, 10, &Filter{Language: "go"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "go", got[0].Record.ID)

	got, err = store.NearestNeighbors(ctx, []float32{1, 0}, 10, &Filter{Category: "ENCRYPTION"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "py", got[0].Record.ID)
}

func TestMemoryStore_NearestNeighborsValidation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Upsert(ctx, record("a", []float32{1, 0})))

	_, err := store.NearestNeighbors(ctx, []float32{1, 0}, 0, nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = store.NearestNeighbors(ctx, []float32{1, 0, 0}, 1, nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestMemoryStore_ScanAllOrdered(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, store.Upsert(ctx, record(id, []float32{1, 0})))
	}

	var ids []string
	for rec, err := range store.ScanAll(ctx) {
		require.NoError(t, err)
		ids = append(ids, rec.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestMemoryStore_UpsertIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	original := record("a", []float32{1, 0})
	original.Categories = []string{"hashing"}
	require.NoError(t, store.Upsert(ctx, original))

	// Mutating the caller's copy must not leak into the store.
	original.Categories[0] = "mutated"
	original.Vector[0] = 99

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"hashing"}, got.Categories)
	assert.Equal(t, []float32{1, 0}, got.Vector)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-6)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-6)
	assert.Zero(t, CosineSimilarity([]float32{1, 0}, []float32{1}), "length mismatch scores zero")
	assert.Zero(t, CosineSimilarity([]float32{0, 0}, []float32{1, 0}), "zero vector scores zero")
}

func TestRecordID_Deterministic(t *testing.T) {
	a := RecordID("kryptor", "AES-256-GCM")
	b := RecordID("KRYPTOR", "aes-256-gcm")
	c := RecordID("kryptor", "ChaCha20")

	assert.Equal(t, a, b, "collection and name are case insensitive")
	assert.NotEqual(t, a, c)
}
