// Package engine ranks corpus records against a task query and explains
// each pick.
//
// A recommendation embeds the task text, retrieves a candidate pool
// from the corpus store, scores each candidate with weighted cosine
// similarity plus category and language hint bonuses, and returns the
// top candidates with a deterministic rationale. Scores are clamped to
// [0,1]; ordering breaks ties by most recent update and then record id,
// so the same corpus and query always yield the same result.
package engine
