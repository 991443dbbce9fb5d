package engine

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the engine's retrieval and scoring parameters.
//
// The defaults are documented starting points, not tuned values: the
// scoring contract (weighted similarity plus hint bonuses, clamped to
// [0,1]) is fixed, the numbers are expected to be adjusted per corpus.
type Config struct {
	// SimilarityWeight scales the cosine similarity from retrieval.
	SimilarityWeight float64

	// CategoryBonus is added when the query's hinted category matches a
	// candidate's tags.
	CategoryBonus float64

	// LanguageBonus is added when the query's hinted language matches.
	LanguageBonus float64

	// CandidatePool is the k passed to nearest-neighbor retrieval.
	CandidatePool int

	// TopN is how many candidates a recommendation returns.
	TopN int

	// MinSimilarity marks the whole result low-confidence when no
	// candidate reaches it.
	MinSimilarity float64
}

// NewConfig reads the engine configuration from environment variables,
// falling back to the documented defaults.
func NewConfig() Config {
	cfg := Config{
		SimilarityWeight: 0.80,
		CategoryBonus:    0.15,
		LanguageBonus:    0.05,
		CandidatePool:    20,
		TopN:             5,
		MinSimilarity:    0.30,
	}

	readFloat := func(key string, dst *float64) {
		if v := os.Getenv(key); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				*dst = f
			}
		}
	}
	readFloat("ENGINE_SIMILARITY_WEIGHT", &cfg.SimilarityWeight)
	readFloat("ENGINE_CATEGORY_BONUS", &cfg.CategoryBonus)
	readFloat("ENGINE_LANGUAGE_BONUS", &cfg.LanguageBonus)
	readFloat("ENGINE_MIN_SIMILARITY", &cfg.MinSimilarity)

	if v := os.Getenv("ENGINE_CANDIDATE_POOL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CandidatePool = n
		}
	}
	if v := os.Getenv("ENGINE_TOP_N"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TopN = n
		}
	}

	return cfg
}

// Validate rejects configurations that cannot score meaningfully.
func (c Config) Validate() error {
	if c.SimilarityWeight <= 0 {
		return fmt.Errorf("engine: similarity weight must be positive")
	}
	if c.CandidatePool <= 0 || c.TopN <= 0 {
		return fmt.Errorf("engine: candidate pool and top-n must be positive")
	}
	if c.TopN > c.CandidatePool {
		return fmt.Errorf("engine: top-n %d exceeds candidate pool %d", c.TopN, c.CandidatePool)
	}
	return nil
}
