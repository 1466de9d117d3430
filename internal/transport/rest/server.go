// Package rest exposes the insight engine over HTTP. Handlers are thin
// glue: decode, call a use case, encode. The AI endpoints inherit the
// core's fail-soft contract, so they return 200 with degraded payloads
// rather than surfacing provider failures.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/civicpulse/insight/internal/domain"
	"github.com/civicpulse/insight/internal/repository/topics"
	"github.com/civicpulse/insight/internal/usecase/analyze"
	healthuc "github.com/civicpulse/insight/internal/usecase/health"
	"github.com/civicpulse/insight/internal/usecase/risk"
	"github.com/civicpulse/insight/internal/usecase/similarity"
	"github.com/civicpulse/insight/internal/usecase/support"
)

// Defaults for the similarity endpoints.
const (
	defaultSimilarLimit     = 5
	defaultDupThreshold     = 0.85
	recommendationThreshold = 0.3
)

// Error codes returned in JSON error bodies.
const (
	codeBadRequest    = "bad_request"
	codeTopicNotFound = "topic_not_found"
	codeInternalError = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Server wires the insight use cases to HTTP routes.
type Server struct {
	analyzer     *analyze.Service
	similar      *similarity.Service
	support      *support.Service
	health       *healthuc.Service
	topics       *topics.Repository
	logger       *zap.Logger
	now          func() time.Time
	similarLimit int
	dupThreshold float64
}

// NewServer creates the HTTP API server.
func NewServer(
	analyzer *analyze.Service,
	similar *similarity.Service,
	supportSvc *support.Service,
	health *healthuc.Service,
	repo *topics.Repository,
	logger *zap.Logger,
) *Server {
	return &Server{
		analyzer:     analyzer,
		similar:      similar,
		support:      supportSvc,
		health:       health,
		topics:       repo,
		logger:       logger,
		now:          time.Now,
		similarLimit: defaultSimilarLimit,
		dupThreshold: defaultDupThreshold,
	}
}

// WithDefaults overrides the default similar-topics result count and
// duplicate threshold. Zero values keep the previous setting.
func (s *Server) WithDefaults(similarLimit int, dupThreshold float64) *Server {
	if similarLimit > 0 {
		s.similarLimit = similarLimit
	}
	if dupThreshold > 0 {
		s.dupThreshold = dupThreshold
	}
	return s
}

// Routes mounts all endpoints on a fresh router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Route("/ai", func(r chi.Router) {
		r.Post("/analyze-text", s.analyzeText)
		r.Post("/auto-tag", s.autoTag)
		r.Get("/similar/{topicID}", s.similarTopics)
		r.Get("/duplicates/{topicID}", s.duplicates)
		r.Get("/predictions/{topicID}", s.predictions)
		r.Get("/summary/{topicID}", s.summary)
		r.Get("/decision-support/{topicID}", s.decisionSupport)
	})
	r.Get("/moderation/brief/{topicID}", s.moderatorBrief)
	r.Get("/health", s.healthCheck)
	r.Get("/metrics", s.metrics)
	return r
}

// analyzeText handles POST /ai/analyze-text.
func (s *Server) analyzeText(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.handleDomainError(w, fmt.Errorf("text: %w", domain.ErrEmptyInput))
		return
	}

	writeJSON(w, http.StatusOK, s.analyzer.Analyze(r.Context(), req.Text))
}

// autoTag handles POST /ai/auto-tag.
func (s *Server) autoTag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Title) == "" && strings.TrimSpace(req.Content) == "" {
		s.handleDomainError(w, fmt.Errorf("title and content: %w", domain.ErrEmptyInput))
		return
	}

	tags := s.analyzer.SuggestTags(r.Context(), req.Title, req.Content)
	writeJSON(w, http.StatusOK, map[string][]string{"tags": tags})
}

// similarTopics handles GET /ai/similar/{topicID}.
func (s *Server) similarTopics(w http.ResponseWriter, r *http.Request) {
	topicID := chi.URLParam(r, "topicID")
	topic, err := s.topics.Get(r.Context(), topicID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	limit := s.similarLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, codeBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	corpus, err := s.corpus(r, topic.ID, "")
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	target := domain.Document{Key: topic.ID, Text: topic.EmbeddingText()}
	ranked, err := s.similar.Rank(r.Context(), target, corpus, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"topic_id": topic.ID,
		"similar":  similarityItems(ranked),
	})
}

// duplicates handles GET /ai/duplicates/{topicID}.
func (s *Server) duplicates(w http.ResponseWriter, r *http.Request) {
	topicID := chi.URLParam(r, "topicID")
	topic, err := s.topics.Get(r.Context(), topicID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	threshold := s.dupThreshold
	if v := r.URL.Query().Get("threshold"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			writeError(w, http.StatusBadRequest, codeBadRequest, "threshold must be a non-negative number")
			return
		}
		threshold = f
	}

	corpus, err := s.corpus(r, topic.ID, "")
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	target := domain.Document{Key: topic.ID, Text: topic.EmbeddingText()}
	dups, err := s.similar.DuplicatesAbove(r.Context(), target, corpus, threshold)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"topic_id":   topic.ID,
		"threshold":  threshold,
		"duplicates": similarityItems(dups),
	})
}

// predictions handles GET /ai/predictions/{topicID}.
func (s *Server) predictions(w http.ResponseWriter, r *http.Request) {
	topicID := chi.URLParam(r, "topicID")
	stats, err := s.topics.Stats(r.Context(), topicID, s.now())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	assessment := risk.Score(stats, s.now())
	writeJSON(w, http.StatusOK, map[string]any{
		"topic_id":        topicID,
		"risk_score":      assessment.Score,
		"risk_level":      assessment.Level,
		"factors":         assessment.Factors,
		"needs_attention": assessment.Score >= recommendationThreshold,
	})
}

// summary handles GET /ai/summary/{topicID}.
func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	topicID := chi.URLParam(r, "topicID")
	topic, err := s.topics.Get(r.Context(), topicID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	posts, err := s.topics.Posts(r.Context(), topicID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"topic_id":   topic.ID,
		"summary":    s.analyzer.Summarize(r.Context(), topic.Title, posts),
		"post_count": len(posts),
	})
}

// decisionSupport handles GET /ai/decision-support/{topicID}.
func (s *Server) decisionSupport(w http.ResponseWriter, r *http.Request) {
	topicID := chi.URLParam(r, "topicID")
	topic, err := s.topics.Get(r.Context(), topicID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	posts, err := s.topics.Posts(r.Context(), topicID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	resolved, err := s.topics.List(r.Context(), domain.StatusResolved)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	bundle := s.support.Synthesize(r.Context(), topic, posts, resolved)
	writeJSON(w, http.StatusOK, bundle)
}

// moderatorBrief handles GET /moderation/brief/{topicID}.
func (s *Server) moderatorBrief(w http.ResponseWriter, r *http.Request) {
	topicID := chi.URLParam(r, "topicID")
	topic, err := s.topics.Get(r.Context(), topicID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"topic_id": topic.ID,
		"brief":    s.support.ModeratorBrief(r.Context(), topic),
	})
}

// healthCheck handles GET /health.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// metrics handles GET /metrics.
func (s *Server) metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// corpus loads every topic except excludeID as ranking documents.
func (s *Server) corpus(r *http.Request, excludeID, status string) ([]domain.Document, error) {
	all, err := s.topics.List(r.Context(), status)
	if err != nil {
		return nil, err
	}
	docs := make([]domain.Document, 0, len(all))
	for _, t := range all {
		if t.ID == excludeID {
			continue
		}
		docs = append(docs, domain.Document{Key: t.ID, Text: t.EmbeddingText()})
	}
	return docs, nil
}

func similarityItems(results []domain.Similarity) []map[string]any {
	items := make([]map[string]any, len(results))
	for i, r := range results {
		items[i] = map[string]any{
			"topic_id":   r.TargetKey,
			"similarity": r.Score,
		}
	}
	return items
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client
// without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrTopicNotFound,
		domain.ErrEmptyInput,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)

	switch {
	case errors.Is(err, domain.ErrTopicNotFound):
		writeError(w, http.StatusNotFound, codeTopicNotFound, msg)
	case errors.Is(err, domain.ErrEmptyInput):
		writeError(w, http.StatusBadRequest, codeBadRequest, msg)
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
