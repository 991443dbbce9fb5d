package curator

import (
	"errors"
	"strings"
	"time"
)

// ErrInsufficientCorpus is returned when curation cannot produce any
// example because the corpus holds no usable records.
var ErrInsufficientCorpus = errors.New("corpus too small for curation")

// Provenance marks where a curated example's task prompt came from.
const (
	ProvenanceHuman     = "human"
	ProvenanceSynthetic = "synthetic"
)

// TrainingExample is one curated instruction/response pair.
type TrainingExample struct {
	// Task is the instruction text the example was generated from.
	Task string `json:"task"`

	// AlgorithmID is the recommended record's id.
	AlgorithmID string `json:"algorithm_id"`

	// AlgorithmName is the recommended record's display name.
	AlgorithmName string `json:"algorithm_name"`

	// Rationale explains the pick, verbatim from the engine.
	Rationale string `json:"rationale"`

	// Provenance is ProvenanceHuman or ProvenanceSynthetic.
	Provenance string `json:"provenance"`

	CreatedAt time.Time `json:"created_at"`
}

// Summary reports the outcome of one curation batch.
type Summary struct {
	Requested  int `json:"requested"`
	Generated  int `json:"generated"`
	Duplicates int `json:"duplicates"`
	Skipped    int `json:"skipped"`
}

// NormalizeTask canonicalizes a task prompt for deduplication: case
// folded with whitespace runs collapsed to single spaces. Two prompts
// that normalize equally count as the same example for a given
// algorithm.
func NormalizeTask(task string) string {
	return strings.Join(strings.Fields(strings.ToLower(task)), " ")
}
