package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fenwick-labs/searchagent/internal/fetch"
	"github.com/fenwick-labs/searchagent/internal/format"
	"github.com/fenwick-labs/searchagent/internal/research"
	"github.com/fenwick-labs/searchagent/internal/search"
)

// Server exposes App.Handle over the single POST endpoint described in §6: a
// thin deserialize/dispatch/serialize shell with no orchestration logic of
// its own, mirroring the teacher's http.go separation between transport
// plumbing and the app package's actual work.
type Server struct {
	App *App
}

// Routes returns the mux this server answers on.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/search", s.handleSearch)
	return mux
}

type wireRequest struct {
	Query                   string   `json:"query"`
	SearchStrategy          string   `json:"search_strategy,omitempty"`
	QueryStrategy           string   `json:"query_strategy,omitempty"`
	MaxResultsToVisit       int      `json:"max_results_to_visit,omitempty"`
	ResultFormat            string   `json:"result_format,omitempty"`
	CustomFormatDescription string   `json:"custom_format_description,omitempty"`
	Whitelist               []string `json:"whitelist,omitempty"`
	Blacklist               []string `json:"blacklist,omitempty"`
}

type wireError struct {
	Message   string `json:"message"`
	ErrorType string `json:"error_type"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var wire wireRequest
	if err := json.NewDecoder(r.Body).Decode(&wire); err != nil {
		writeError(w, "malformed request body", "request_error")
		return
	}
	if strings.TrimSpace(wire.Query) == "" {
		writeError(w, "query must not be empty", "request_error")
		return
	}

	req := research.SearchRequest{
		Query:                   wire.Query,
		SearchStrategy:          research.SearchStrategy(wire.SearchStrategy),
		QueryStrategy:           research.QueryStrategy(wire.QueryStrategy),
		MaxResultsToVisit:       wire.MaxResultsToVisit,
		ResultFormat:            research.FormatKind(wire.ResultFormat),
		CustomFormatDescription: wire.CustomFormatDescription,
		Whitelist:               wire.Whitelist,
		Blacklist:               wire.Blacklist,
	}

	start := time.Now()
	result, err := s.App.Handle(r.Context(), req)
	if err != nil {
		log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("search request failed")
		message, errorType := classifyError(err)
		writeError(w, message, errorType)
		return
	}

	log.Info().Dur("elapsed", time.Since(start)).Strs("queries_executed", result.QueriesExecuted).Msg("search request completed")
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}

// classifyError maps an internal error to the human-readable message and
// error_type enum named in §6. error_type is intentionally coarse — the
// boundary does not distinguish transient transport errors from true user
// errors, per §7's stated policy.
func classifyError(err error) (string, string) {
	var searxErr *search.SearxError
	if errors.As(err, &searxErr) {
		return err.Error(), "searx_error"
	}

	var reqErr *search.RequestError
	if errors.As(err, &reqErr) {
		return err.Error(), "request_error"
	}

	var fetchErr *fetch.FetchError
	if errors.As(err, &fetchErr) {
		return err.Error(), "request_error"
	}

	var missingErr format.CustomFormatDescriptionMissingError
	if errors.As(err, &missingErr) {
		return err.Error(), "search_error"
	}

	if strings.Contains(err.Error(), "unsupported URL scheme") {
		return err.Error(), "invalid_url"
	}

	return err.Error(), "search_error"
}

func writeError(w http.ResponseWriter, message, errorType string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(wireError{Message: message, ErrorType: errorType})
}
