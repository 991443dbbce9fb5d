package corpus

import "errors"

// Standardized store error kinds. They abstract away the backing
// implementation so application code can branch with errors.Is
// regardless of whether the store is in-memory or Qdrant-backed.
var (
	// ErrValidation is returned for malformed input: empty id,
	// non-positive k, or an embedding dimension that does not match the
	// store's established dimension. Never retried.
	ErrValidation = errors.New("validation error")

	// ErrNotFound is returned when a record id is absent from the store.
	ErrNotFound = errors.New("record not found")
)
