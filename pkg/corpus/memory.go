package corpus

import (
	"context"
	"fmt"
	"iter"
	"math"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is an exact, in-process Store backed by a map.
//
// Nearest-neighbor search is a linear scan with cosine scoring, which is
// acceptable at tens-of-thousands scale. Records are stored and returned
// by value, so a reader always sees either the old or the new version of
// a record, never a mix.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]AlgorithmRecord
	dim     int // established by the first upsert, 0 until then
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]AlgorithmRecord)}
}

// Upsert inserts or replaces the record by id. The first upsert fixes
// the store's embedding dimension; later vectors must match it.
func (s *MemoryStore) Upsert(ctx context.Context, record AlgorithmRecord) error {
	if record.ID == "" {
		return fmt.Errorf("%w: empty record id", ErrValidation)
	}
	if len(record.Vector) == 0 {
		return fmt.Errorf("%w: record %q has no embedding vector", ErrValidation, record.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dim == 0 {
		s.dim = len(record.Vector)
	} else if len(record.Vector) != s.dim {
		return fmt.Errorf("%w: vector dimension %d, store dimension %d", ErrValidation, len(record.Vector), s.dim)
	}

	s.records[record.ID] = record.Clone()
	return nil
}

// Delete removes the record. Absent ids are a no-op, not an error.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

// Get returns a copy of the record for id, or ErrNotFound.
func (s *MemoryStore) Get(ctx context.Context, id string) (AlgorithmRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return AlgorithmRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return record.Clone(), nil
}

// NearestNeighbors scans all records, scores them by cosine similarity,
// and returns the top k after filtering. Equal similarities break by
// most recent UpdatedAt, then lexicographically lower id.
func (s *MemoryStore) NearestNeighbors(ctx context.Context, vector []float32, k int, filter *Filter) ([]Neighbor, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", ErrValidation, k)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.dim != 0 && len(vector) != s.dim {
		return nil, fmt.Errorf("%w: query dimension %d, store dimension %d", ErrValidation, len(vector), s.dim)
	}

	neighbors := make([]Neighbor, 0, len(s.records))
	for _, record := range s.records {
		if filter != nil && !filter.Matches(record) {
			continue
		}
		neighbors = append(neighbors, Neighbor{
			Record:     record.Clone(),
			Similarity: CosineSimilarity(vector, record.Vector),
		})
	}

	SortNeighbors(neighbors)
	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors, nil
}

// ScanAll yields a point-in-time copy of all records, ordered by id for
// determinism.
func (s *MemoryStore) ScanAll(ctx context.Context) iter.Seq2[AlgorithmRecord, error] {
	s.mu.RLock()
	snapshot := make([]AlgorithmRecord, 0, len(s.records))
	for _, record := range s.records {
		snapshot = append(snapshot, record.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(snapshot, func(i, j int) bool { return snapshot[i].ID < snapshot[j].ID })

	return func(yield func(AlgorithmRecord, error) bool) {
		for _, record := range snapshot {
			if err := ctx.Err(); err != nil {
				yield(AlgorithmRecord{}, err)
				return
			}
			if !yield(record, nil) {
				return
			}
		}
	}
}

// Count returns the number of stored records.
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// CosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched lengths or zero vectors score 0.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// SortNeighbors orders neighbors by descending similarity, breaking ties
// by most recent UpdatedAt and then by id. Shared by store
// implementations so ranking is deterministic everywhere.
func SortNeighbors(neighbors []Neighbor) {
	sort.SliceStable(neighbors, func(i, j int) bool {
		if neighbors[i].Similarity != neighbors[j].Similarity {
			return neighbors[i].Similarity > neighbors[j].Similarity
		}
		if !neighbors[i].Record.UpdatedAt.Equal(neighbors[j].Record.UpdatedAt) {
			return neighbors[i].Record.UpdatedAt.After(neighbors[j].Record.UpdatedAt)
		}
		return strings.Compare(neighbors[i].Record.ID, neighbors[j].Record.ID) < 0
	})
}
