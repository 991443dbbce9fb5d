package bridge

import (
	"time"

	"github.com/nexus-evo/algorec/pkg/engine"
	"github.com/nexus-evo/algorec/pkg/ingest"
)

// The v1 wire contract. Field names and meanings are frozen: additive
// changes only, breaking changes go to a new version prefix.

// RecommendRequest asks for ranked algorithm candidates for a task.
type RecommendRequest struct {
	// Task is the free-text description of what the caller needs.
	Task string `json:"task"`

	// Category and Language are optional hints, matched case
	// insensitively against record metadata.
	Category string `json:"category,omitempty"`
	Language string `json:"language,omitempty"`

	// TimeoutMs bounds the request server-side when positive.
	TimeoutMs int `json:"timeout_ms,omitempty"`
}

// RecommendResponse carries the ranked result.
type RecommendResponse struct {
	Status  string               `json:"status"`
	Results []RecommendCandidate `json:"results"`
}

// RecommendCandidate is one ranked pick.
type RecommendCandidate struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Collection string   `json:"collection"`
	Language   string   `json:"language,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Score      float64  `json:"score"`
	Rationale  string   `json:"rationale"`
}

// CurateRequest asks for a batch of training examples.
type CurateRequest struct {
	// BatchSize caps the number of examples; defaults server-side when
	// zero.
	BatchSize int `json:"batch_size,omitempty"`

	// Prompts are caller-supplied tasks, marked human provenance. The
	// batch is topped up with synthetic prompts when fewer than
	// BatchSize are given.
	Prompts []string `json:"prompts,omitempty"`
}

// CurateResponse reports the batch outcome.
type CurateResponse struct {
	Requested  int `json:"requested"`
	Generated  int `json:"generated"`
	Duplicates int `json:"duplicates"`
	Skipped    int `json:"skipped"`
}

// IngestionStatusResponse describes the most recent ingestion run.
type IngestionStatusResponse struct {
	// Ran is false until the first ingestion run completes; all other
	// fields are zero in that case.
	Ran         bool                       `json:"ran"`
	StartedAt   time.Time                  `json:"started_at,omitempty"`
	FinishedAt  time.Time                  `json:"finished_at,omitempty"`
	Collections []ingest.CollectionSummary `json:"collections,omitempty"`
	Totals      *ingest.CollectionSummary  `json:"totals,omitempty"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func toRecommendResponse(result *engine.Result) RecommendResponse {
	resp := RecommendResponse{
		Status:  string(result.Status),
		Results: make([]RecommendCandidate, 0, len(result.Items)),
	}
	for _, item := range result.Items {
		resp.Results = append(resp.Results, RecommendCandidate{
			ID:         item.Record.ID,
			Name:       item.Record.Name,
			Collection: item.Record.Collection,
			Language:   item.Record.Language,
			Categories: item.Record.Categories,
			Score:      item.Score,
			Rationale:  item.Rationale,
		})
	}
	return resp
}
