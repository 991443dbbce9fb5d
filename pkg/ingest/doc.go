// Package ingest pulls raw algorithm metadata from source collections,
// normalizes it into corpus records, and upserts the records with fresh
// embeddings.
//
// Two source kinds ship with the service: ManifestSource (JSONL files)
// and RepoSource (directory trees of algorithm implementations, where
// the description comes from each file's leading comment block). Both
// are finite and restartable.
//
// Collections are independent failure domains. The pipeline ingests all
// collections of a run in parallel, isolates per-entry and per-source
// failures into counters, and keeps the last RunSummary available for
// the bridge's ingestionStatus operation. Embeddings are only
// recomputed when an entry's description text changed, so refresh runs
// against an unchanged corpus cost no provider calls.
//
// After a collection is read successfully its stored records are
// reconciled against the entries just seen: records whose entry left
// the source are deleted and reported in the summary. A collection that
// could not be read is never reconciled, so transient source outages do
// not shrink the corpus.
package ingest
