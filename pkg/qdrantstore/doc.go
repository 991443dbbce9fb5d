// Package qdrantstore implements corpus.Store on top of a Qdrant
// collection.
//
// Records map 1:1 onto Qdrant points: the record id (a UUIDv5 string)
// is the point id, the embedding is the point vector, and the remaining
// record fields live in the payload. The collection is created on
// startup with cosine distance and the configured vector size, matching
// the similarity measure the store contract specifies.
//
// Nearest-neighbor results are re-sorted client-side after the Qdrant
// query so tie-breaking (UpdatedAt desc, then id asc) is identical to
// the in-memory store, so callers get deterministic rankings regardless
// of which backend serves them.
package qdrantstore
