package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/nexus-evo/algorec/pkg/corpus"
	"github.com/nexus-evo/algorec/pkg/curator"
	"github.com/nexus-evo/algorec/pkg/engine"
	"github.com/nexus-evo/algorec/pkg/ingest"
	"github.com/nexus-evo/algorec/pkg/logger"
)

// Recommender serves ranked recommendations.
type Recommender interface {
	Recommend(ctx context.Context, query corpus.TaskQuery) (*engine.Result, error)
}

// Curator produces training-example batches.
type Curator interface {
	Curate(ctx context.Context, batchSize int, prompts ...string) (*curator.Summary, error)
}

// IngestionReporter exposes the most recent ingestion run.
type IngestionReporter interface {
	LastRun() *ingest.RunSummary
}

// Server is the agent-facing HTTP surface. All functional routes live
// under the /v1 prefix; the contract types in this package define the
// payloads.
type Server struct {
	recommender Recommender
	curator     Curator
	ingestion   IngestionReporter
	cfg         Config
	log         *logger.Logger
}

// NewServer constructs the bridge server.
func NewServer(rec Recommender, cur Curator, ing IngestionReporter, cfg Config, log *logger.Logger) *Server {
	return &Server{
		recommender: rec,
		curator:     cur,
		ingestion:   ing,
		cfg:         cfg,
		log:         log,
	}
}

// Router assembles the chi routing tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/recommend", s.handleRecommend)
		r.Post("/curate", s.handleCurate)
		r.Get("/ingestion/status", s.handleIngestionStatus)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: malformed request body", corpus.ErrValidation))
		return
	}
	if req.Task == "" {
		s.writeError(w, r, fmt.Errorf("%w: task is required", corpus.ErrValidation))
		return
	}

	ctx := r.Context()
	if req.TimeoutMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(req.TimeoutMs)*time.Millisecond)
		defer cancel()
	}

	result, err := s.recommender.Recommend(ctx, corpus.TaskQuery{
		Text:     req.Task,
		Category: req.Category,
		Language: req.Language,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toRecommendResponse(result))
}

func (s *Server) handleCurate(w http.ResponseWriter, r *http.Request) {
	var req CurateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: malformed request body", corpus.ErrValidation))
		return
	}
	if req.BatchSize <= 0 {
		req.BatchSize = s.cfg.DefaultCurateBatch
	}

	summary, err := s.curator.Curate(r.Context(), req.BatchSize, req.Prompts...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, CurateResponse{
		Requested:  summary.Requested,
		Generated:  summary.Generated,
		Duplicates: summary.Duplicates,
		Skipped:    summary.Skipped,
	})
}

func (s *Server) handleIngestionStatus(w http.ResponseWriter, _ *http.Request) {
	run := s.ingestion.LastRun()
	if run == nil {
		s.writeJSON(w, http.StatusOK, IngestionStatusResponse{Ran: false})
		return
	}
	totals := run.Totals()
	s.writeJSON(w, http.StatusOK, IngestionStatusResponse{
		Ran:         true,
		StartedAt:   run.StartedAt,
		FinishedAt:  run.FinishedAt,
		Collections: run.Collections,
		Totals:      &totals,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("failed to encode response", err, nil)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := classify(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", err, map[string]interface{}{
			"path": r.URL.Path,
			"code": code,
		})
	}
	s.writeJSON(w, status, ErrorResponse{
		Code:      code,
		Message:   message,
		RequestID: requestIDFrom(r.Context()),
	})
}

type ctxKey int

const requestIDKey ctxKey = iota

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// requestID tags every request with an id, honoring a caller-supplied
// X-Request-Id so agent-side traces line up with server logs.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug("request served", nil, map[string]interface{}{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"durationMs": time.Since(start).Milliseconds(),
			"requestId":  requestIDFrom(r.Context()),
		})
	})
}
