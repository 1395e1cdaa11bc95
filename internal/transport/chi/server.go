// Package chi is the HTTP surface of the search engine: one public
// search endpoint plus health and metrics.
package chi

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/opencivic/sitesearch/internal/domain/search/result"
	"github.com/opencivic/sitesearch/internal/logger"
	healthuc "github.com/opencivic/sitesearch/internal/usecase/health"
	searchuc "github.com/opencivic/sitesearch/internal/usecase/search"
)

// Error codes in the public envelope.
const (
	codeRateLimit = "RATE_LIMIT"
	codeInternal  = "INTERNAL_ERROR"
)

// searchResponse is the success envelope.
type searchResponse struct {
	Results    result.Grouped `json:"results"`
	TotalCount int            `json:"totalCount"`
	Query      string         `json:"query"`
}

// errorResponse is the failure envelope. Results stays present (and
// empty) so clients can render the page without branching.
type errorResponse struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Results    result.Grouped `json:"results"`
	TotalCount int            `json:"totalCount"`
	Query      string         `json:"query"`
}

// Server holds the HTTP handlers.
type Server struct {
	search *searchuc.Service
	health *healthuc.Service
	logger *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(search *searchuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	return &Server{search: search, health: health, logger: logger}
}

// HandleSearch handles GET /api/search?q=<string>.
//
// Short or empty queries are a trivial success, not an error. A store
// failure answers 500 with a generic envelope; no internal detail
// leaks past this boundary.
func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	rawQuery := r.URL.Query().Get("q")

	resp, err := s.search.Search(r.Context(), rawQuery)
	if err != nil {
		logger.FromContext(r.Context()).Error("search failed",
			zap.String("query", resp.Query), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Code:    codeInternal,
			Message: "search is temporarily unavailable",
			Results: result.Empty(),
			Query:   resp.Query,
		})
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Results:    resp.Results,
		TotalCount: resp.TotalCount,
		Query:      resp.Query,
	})
}

// HandleHealth handles GET /health.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
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

// HandleMetrics handles GET /metrics.
func (s *Server) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
