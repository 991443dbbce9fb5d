// Package curator builds instruction-tuning datasets from the live
// corpus.
//
// A curation batch replays task prompts (caller-supplied or synthetic,
// derived from corpus categories) through the recommendation engine and
// exports the accepted picks as JSONL instruction/response rows. A
// ledger keyed on the normalized task and algorithm id guarantees each
// pair is exported at most once, across batches and restarts when the
// SQLite ledger is configured.
package curator
