// Package chi implements the HTTP API: search, highlights, sentiment stats
// and health.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/placerank/placerank/internal/domain"
	"github.com/placerank/placerank/internal/domain/rank"
	"github.com/placerank/placerank/internal/usecase/ranking"
	"github.com/placerank/placerank/internal/usecase/session"
)

// Error response codes.
const (
	codeBadRequest        = "bad_request"
	codeInvalidQuery      = "invalid_query"
	codeUnknownStrategy   = "unknown_aggregation"
	codeProviderError     = "provider_error"
	codeNoSearchPerformed = "no_search_performed"
	codeInternalError     = "internal_error"
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds one active session: each search replaces it, and highlight
// and sentiment lookups read from it. The session itself is not safe for
// concurrent use, so handlers serialize access through mu.
type Server struct {
	ranking       *ranking.Service
	sess          *session.Session
	mu            sync.Mutex
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates the HTTP API server with a fresh, empty session.
func NewServer(rankingSvc *ranking.Service, sess *session.Session, logger *zap.Logger) *Server {
	s := &Server{
		ranking: rankingSvc,
		sess:    sess,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, codeInvalidQuery),
		sentinelHandler(domain.ErrUnknownAggregation, http.StatusBadRequest, codeUnknownStrategy),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeProviderError),
		sentinelHandler(domain.ErrClassifierProviderError, http.StatusBadGateway, codeProviderError),
	}
	return s
}

// Routes mounts all API endpoints on a router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/search", s.handleSearch)
	r.Get("/places/{placeID}/highlights", s.handleHighlights)
	r.Get("/places/{placeID}/sentiment", s.handleSentiment)
	r.Get("/healthz", s.handleHealth)
}

type searchRequest struct {
	Query       string `json:"query"`
	TopK        int    `json:"top_k"`
	MinReviews  int    `json:"min_reviews"`
	Aggregation string `json:"aggregation"`
}

// handleSearch handles POST /search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.TopK < 0 {
		writeError(w, http.StatusBadRequest, codeBadRequest, "top_k must not be negative")
		return
	}
	if req.MinReviews < 0 {
		writeError(w, http.StatusBadRequest, codeBadRequest, "min_reviews must not be negative")
		return
	}

	strategy, err := rank.ParseStrategy(req.Aggregation)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	s.mu.Lock()
	result, err := s.ranking.SearchPlaces(r.Context(), s.sess, req.Query, ranking.Options{
		TopK:       req.TopK,
		MinReviews: req.MinReviews,
		Strategy:   strategy,
	})
	s.mu.Unlock()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	if result.Places == nil {
		result.Places = []domain.PlaceResult{}
	}
	writeJSON(w, http.StatusOK, result)
}

type highlightsResponse struct {
	PlaceID    int64    `json:"place_id"`
	Highlights []string `json:"highlights"`
}

// handleHighlights handles GET /places/{placeID}/highlights.
func (s *Server) handleHighlights(w http.ResponseWriter, r *http.Request) {
	placeID, ok := s.placeID(w, r)
	if !ok {
		return
	}

	topK := 3
	if raw := r.URL.Query().Get("top_k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, codeBadRequest, "top_k must be a positive integer")
			return
		}
		topK = n
	}

	s.mu.Lock()
	updated := s.sess.Updated()
	highlights := s.sess.Highlights(placeID, topK)
	s.mu.Unlock()

	if !updated {
		writeError(w, http.StatusConflict, codeNoSearchPerformed, "no search has been performed yet")
		return
	}
	if highlights == nil {
		highlights = []string{}
	}
	writeJSON(w, http.StatusOK, highlightsResponse{PlaceID: placeID, Highlights: highlights})
}

type sentimentResponse struct {
	PlaceID        int64                 `json:"place_id"`
	QuerySentiment domain.Sentiment      `json:"query_sentiment"`
	Stats          domain.SentimentStats `json:"stats"`
}

// handleSentiment handles GET /places/{placeID}/sentiment.
func (s *Server) handleSentiment(w http.ResponseWriter, r *http.Request) {
	placeID, ok := s.placeID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	updated := s.sess.Updated()
	resp := sentimentResponse{
		PlaceID:        placeID,
		QuerySentiment: s.sess.QuerySentiment(),
		Stats:          s.sess.SentimentStats(placeID),
	}
	s.mu.Unlock()

	if !updated {
		writeError(w, http.StatusConflict, codeNoSearchPerformed, "no search has been performed yet")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) placeID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "placeID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid place id")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrUnknownAggregation,
		domain.ErrEmbeddingProviderError,
		domain.ErrClassifierProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
