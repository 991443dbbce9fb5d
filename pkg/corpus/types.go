package corpus

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AlgorithmRecord is one indexed algorithm implementation.
//
// The embedding vector has a uniform dimension across all records in a
// given store instance; the store enforces this on upsert.
type AlgorithmRecord struct {
	// ID is the stable identity, derived from the source collection and
	// the canonical name. See RecordID.
	ID string `json:"id"`

	// Name is the display name of the algorithm, e.g. "AES-256-GCM".
	Name string `json:"name"`

	// Collection tags which source collection the record came from.
	Collection string `json:"collection"`

	// Language is the implementation language tag, e.g. "python", "go".
	Language string `json:"language"`

	// Description is the free-text description the embedding is computed from.
	Description string `json:"description"`

	// Categories is the set of category tags, e.g. "symmetric-cipher".
	// Must be non-empty for a record to be eligible for category ranking.
	Categories []string `json:"categories"`

	// Vector is the semantic embedding of Description.
	Vector []float32 `json:"vector,omitempty"`

	// UpdatedAt is the last time ingestion wrote this record.
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasCategory reports whether the record carries the given category tag.
// Matching is case-insensitive.
func (r AlgorithmRecord) HasCategory(category string) bool {
	return slices.ContainsFunc(r.Categories, func(c string) bool {
		return strings.EqualFold(c, category)
	})
}

// Clone returns a deep copy of the record, so callers can hold results
// without aliasing store-internal slices.
func (r AlgorithmRecord) Clone() AlgorithmRecord {
	r.Categories = slices.Clone(r.Categories)
	r.Vector = slices.Clone(r.Vector)
	return r
}

// TaskQuery is a submitted task description plus optional filter hints.
// It is ephemeral and never persisted.
type TaskQuery struct {
	Text     string `json:"text"`
	Category string `json:"category,omitempty"` // preferred category, optional
	Language string `json:"language,omitempty"` // preferred language, optional
}

// Filter restricts nearest-neighbor candidates by metadata.
// Zero-value fields match everything.
type Filter struct {
	Category string
	Language string
}

// Matches reports whether the record satisfies the filter.
func (f Filter) Matches(r AlgorithmRecord) bool {
	if f.Category != "" && !r.HasCategory(f.Category) {
		return false
	}
	if f.Language != "" && !strings.EqualFold(f.Language, r.Language) {
		return false
	}
	return true
}

// IsZero reports whether the filter imposes no restriction.
func (f Filter) IsZero() bool {
	return f.Category == "" && f.Language == ""
}

// Neighbor is one nearest-neighbor result: a record and its cosine
// similarity to the query vector.
type Neighbor struct {
	Record     AlgorithmRecord
	Similarity float32
}

// idNamespace scopes the UUIDv5 derivation of record ids.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("algorec://corpus"))

// RecordID derives the stable id of a record from its source collection
// and canonical name. Canonicalization lowercases and trims both parts,
// so re-ingesting the same entry always maps to the same id.
func RecordID(collection, name string) string {
	canon := canonical(collection) + "/" + canonical(name)
	return uuid.NewSHA1(idNamespace, []byte(canon)).String()
}

func canonical(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
