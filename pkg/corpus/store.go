package corpus

import (
	"context"
	"iter"
)

// Store is the durable table of algorithm records and their vectors.
//
// Implementations must keep the embedding dimension uniform across all
// records and must never let a reader observe a partially written
// record: an upsert replaces the record as a unit.
type Store interface {
	// Upsert inserts or replaces a record by id. Fails with
	// ErrValidation if the id is empty or the vector dimension
	// mismatches the store's established dimension.
	Upsert(ctx context.Context, record AlgorithmRecord) error

	// Delete removes a record. Deleting an absent id is a no-op.
	Delete(ctx context.Context, id string) error

	// Get returns the record for id, or ErrNotFound.
	Get(ctx context.Context, id string) (AlgorithmRecord, error)

	// NearestNeighbors returns up to k records ranked by cosine
	// similarity to the query vector, after applying the optional
	// filter. Ties break by most recent UpdatedAt, then by id, so
	// results are deterministic. Fails with ErrValidation if k <= 0 or
	// the query dimension mismatches.
	NearestNeighbors(ctx context.Context, vector []float32, k int, filter *Filter) ([]Neighbor, error)

	// ScanAll yields every record present at call time. The sequence is
	// finite and restartable; snapshot semantics across concurrent
	// mutation are not guaranteed.
	ScanAll(ctx context.Context) iter.Seq2[AlgorithmRecord, error]

	// Count returns the number of records currently stored.
	Count(ctx context.Context) (int, error)
}
