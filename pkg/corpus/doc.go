// Package corpus defines the algorithm corpus data model and the Store
// contract for keeping algorithm records with their embedding vectors.
//
// Two implementations exist: MemoryStore in this package (exact linear
// scan, suited for tests and small deployments) and the Qdrant-backed
// store in pkg/qdrantstore. Both guarantee:
//
//   - uniform embedding dimension across all records in one instance
//   - atomic record visibility (a reader sees the old or the new
//     version of a record, never a mix)
//   - deterministic nearest-neighbor ordering: similarity descending,
//     then most recent UpdatedAt, then id
//
// Record identity is derived, not assigned: RecordID hashes the source
// collection and canonical name into a UUIDv5, so re-ingesting the same
// entry always lands on the same record.
package corpus
