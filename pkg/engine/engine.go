package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/nexus-evo/algorec/pkg/corpus"
	"github.com/nexus-evo/algorec/pkg/logger"
	"github.com/nexus-evo/algorec/pkg/metrics"
	"github.com/nexus-evo/algorec/pkg/tracer"
)

// ErrTimeout is returned when the caller's deadline expires while a
// recommendation is in flight. Callers may retry with backoff.
var ErrTimeout = errors.New("recommendation timed out")

// Status classifies a recommendation result for the caller.
type Status string

const (
	// StatusOK means candidates were found with adequate similarity.
	StatusOK Status = "ok"

	// StatusNoCandidates means the corpus held nothing matching the
	// query and its filters. Not an error.
	StatusNoCandidates Status = "no_candidates"

	// StatusLowConfidence means candidates exist but none reached the
	// configured minimum similarity; callers may escalate or decline.
	StatusLowConfidence Status = "low_confidence"
)

// Recommendation is one ranked candidate with its final score and the
// rationale for choosing it.
type Recommendation struct {
	Record    corpus.AlgorithmRecord `json:"record"`
	Score     float64                `json:"score"`
	Rationale string                 `json:"rationale"`
}

// Result is the ordered outcome of one recommendation request.
// Items are sorted by descending score; ties break by most recent
// record update, then by id.
type Result struct {
	Status Status           `json:"status"`
	Items  []Recommendation `json:"items"`
}

// Embedder is the slice of the embedding client the engine needs.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Engine turns a task query into a ranked, explained recommendation.
//
// A request is embedded, retrieved, scored and returned in order; any
// step error fails the request as a whole. There is no fallback
// retrieval against a stale or default vector: if the provider is down,
// the request fails fast with the provider's error.
type Engine struct {
	store      corpus.Store
	embedder   Embedder
	summarizer Summarizer
	cfg        Config
	log        *logger.Logger
	metrics    *metrics.Metrics
	tracer     *tracer.Tracer
}

// NewEngine constructs a recommendation engine.
func NewEngine(store corpus.Store, embedder Embedder, cfg Config, log *logger.Logger, m *metrics.Metrics, t *tracer.Tracer) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		store:      store,
		embedder:   embedder,
		summarizer: NewKeywordSummarizer(),
		cfg:        cfg,
		log:        log,
		metrics:    m,
		tracer:     t,
	}, nil
}

// WithSummarizer swaps the rationale generator. The engine's control
// flow never depends on the summarizer; it only decorates results.
func (e *Engine) WithSummarizer(s Summarizer) *Engine {
	e.summarizer = s
	return e
}

// Recommend serves one task query.
//
// An empty corpus (or an empty candidate set after filtering) yields
// Status no_candidates with a nil error. A deadline expiring during the
// request yields ErrTimeout, never a partial result.
func (e *Engine) Recommend(ctx context.Context, query corpus.TaskQuery) (*Result, error) {
	ctx, span := e.tracer.StartSpan(ctx, "engine.recommend")
	defer span.End()

	result, err := e.recommend(ctx, query)
	if err != nil {
		tracer.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("recommend.status", string(result.Status)),
		attribute.Int("recommend.returned", len(result.Items)),
	)
	return result, nil
}

func (e *Engine) recommend(ctx context.Context, query corpus.TaskQuery) (*Result, error) {
	start := time.Now()
	defer e.metrics.ObserveRecommendDuration(start, "total")

	if query.Text == "" {
		e.metrics.IncRecommend("error")
		return nil, fmt.Errorf("%w: empty task text", corpus.ErrValidation)
	}

	// Embedded
	vector, err := e.embedder.Embed(ctx, query.Text)
	if err != nil {
		if ctx.Err() != nil {
			e.metrics.IncRecommend("timeout")
			return nil, fmt.Errorf("%w: %w", ErrTimeout, ctx.Err())
		}
		e.metrics.IncRecommend("error")
		e.log.Error("recommendation failed", err, map[string]interface{}{"stage": "embedded"})
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		e.metrics.IncRecommend("timeout")
		return nil, fmt.Errorf("%w: %w", ErrTimeout, err)
	}

	// Retrieved
	filter := &corpus.Filter{Category: query.Category, Language: query.Language}
	neighbors, err := e.store.NearestNeighbors(ctx, vector, e.cfg.CandidatePool, filter)
	if err != nil {
		if ctx.Err() != nil {
			e.metrics.IncRecommend("timeout")
			return nil, fmt.Errorf("%w: %w", ErrTimeout, ctx.Err())
		}
		e.metrics.IncRecommend("error")
		e.log.Error("recommendation failed", err, map[string]interface{}{"stage": "retrieved"})
		return nil, err
	}

	if len(neighbors) == 0 {
		e.metrics.IncRecommend("no_candidates")
		e.log.Info("no candidates for query", nil, map[string]interface{}{
			"category": query.Category,
			"language": query.Language,
		})
		return &Result{Status: StatusNoCandidates, Items: []Recommendation{}}, nil
	}

	// Scored + Returned
	result := e.score(query, neighbors)
	if err := ctx.Err(); err != nil {
		e.metrics.IncRecommend("timeout")
		return nil, fmt.Errorf("%w: %w", ErrTimeout, err)
	}

	e.metrics.IncRecommend(string(result.Status))
	e.log.Debug("recommendation served", nil, map[string]interface{}{
		"stage":      "returned",
		"status":     string(result.Status),
		"candidates": len(neighbors),
		"returned":   len(result.Items),
	})
	return result, nil
}

// score turns retrieval candidates into the final ranked result.
// Retrieval already orders deterministically (similarity desc, UpdatedAt
// desc, id asc); the final score is monotone in similarity for a fixed
// query, so that order carries over to equal scores.
func (e *Engine) score(query corpus.TaskQuery, neighbors []corpus.Neighbor) *Result {
	lowConfidence := true
	items := make([]Recommendation, 0, min(e.cfg.TopN, len(neighbors)))

	for _, n := range neighbors {
		if float64(n.Similarity) >= e.cfg.MinSimilarity {
			lowConfidence = false
		}
		if len(items) >= e.cfg.TopN {
			continue
		}

		items = append(items, Recommendation{
			Record:    n.Record,
			Score:     e.scoreCandidate(query, n),
			Rationale: e.summarizer.Summarize(n.Record, query),
		})
	}

	status := StatusOK
	if lowConfidence {
		status = StatusLowConfidence
	}
	return &Result{Status: status, Items: items}
}

// scoreCandidate computes the weighted multi-signal relevance score,
// clamped to [0,1]. Negative cosine similarity contributes zero rather
// than dragging bonuses down.
func (e *Engine) scoreCandidate(query corpus.TaskQuery, n corpus.Neighbor) float64 {
	score := e.cfg.SimilarityWeight * math0(float64(n.Similarity))

	if query.Category != "" && n.Record.HasCategory(query.Category) {
		score += e.cfg.CategoryBonus
	}
	if query.Language != "" && strings.EqualFold(query.Language, n.Record.Language) {
		score += e.cfg.LanguageBonus
	}

	return clamp01(score)
}

func math0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
