package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clinicode-labs/clinicode-core/internal/core/domain"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// TokenRequest carries credentials for token issuance
type TokenRequest struct {
	ClientID string `json:"client_id" example:"batch-runner"`
	APIKey   string `json:"api_key"`
}

// TokenResponse carries an issued access token
type TokenResponse struct {
	Token string `json:"token"`
}

// ExtractRequest is a single-document extraction request
type ExtractRequest struct {
	DocumentID string               `json:"document_id" example:"op-2024-0042"`
	Text       string               `json:"text"`
	Options    *domain.MatchOptions `json:"options,omitempty"`
}

// ExtractBatchRequest is a multi-document extraction request
type ExtractBatchRequest struct {
	Documents []domain.BatchDocument `json:"documents"`
	Options   *domain.MatchOptions   `json:"options,omitempty"`
}

// BatchItemResponse is one document's outcome within a batch
type BatchItemResponse struct {
	DocumentID string                   `json:"document_id"`
	Result     *domain.ExtractionResult `json:"result,omitempty"`
	Error      string                   `json:"error,omitempty"`
}

// ExtractBatchResponse wraps the per-document outcomes
type ExtractBatchResponse struct {
	Results []BatchItemResponse `json:"results"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Verifies the corpus is loaded and backing stores are reachable
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if !s.corpusService.Status().Loaded {
		writeError(w, http.StatusServiceUnavailable, "corpus not loaded")
		return
	}
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
	}
	if s.redisClient != nil {
		if err := s.redisClient.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "redis unreachable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// handleIssueToken godoc
// @Summary      Issue an access token
// @Description  Exchanges a client id and API key for a signed JWT
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request  body      TokenRequest  true  "Client credentials"
// @Success      200      {object}  TokenResponse
// @Failure      401      {object}  ErrorResponse
// @Router       /api/v1/auth/token [post]
func (s *Server) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	if s.authService == nil {
		writeError(w, http.StatusNotFound, "authentication disabled")
		return
	}

	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := s.authService.IssueToken(r.Context(), req.ClientID, req.APIKey)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "client_id and api_key are required")
		default:
			writeError(w, http.StatusUnauthorized, "invalid credentials")
		}
		return
	}
	writeJSON(w, http.StatusOK, TokenResponse{Token: token})
}

// Extraction endpoints

// handleExtract godoc
// @Summary      Extract codes from one document
// @Description  Runs the full pipeline and returns ranked candidates. An
// @Description  empty candidate list is a valid result, not an error.
// @Tags         Extraction
// @Accept       json
// @Produce      json
// @Param        request  body      ExtractRequest  true  "Document to process"
// @Success      200      {object}  domain.ExtractionResult
// @Failure      400      {object}  ErrorResponse  "Invalid request"
// @Failure      503      {object}  ErrorResponse  "Corpus not loaded"
// @Router       /api/v1/extract [post]
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DocumentID == "" {
		writeError(w, http.StatusBadRequest, "document_id is required")
		return
	}

	opts := domain.MatchOptions{}
	if req.Options != nil {
		opts = *req.Options
	}

	result, err := s.extractionService.Extract(r.Context(), req.DocumentID, req.Text, opts)
	if err != nil {
		writeExtractionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleExtractBatch godoc
// @Summary      Extract codes from many documents
// @Description  Documents are processed concurrently; a failed document
// @Description  reports its error inline and does not affect the others.
// @Tags         Extraction
// @Accept       json
// @Produce      json
// @Param        request  body      ExtractBatchRequest  true  "Documents to process"
// @Success      200      {object}  ExtractBatchResponse
// @Failure      400      {object}  ErrorResponse
// @Router       /api/v1/extract/batch [post]
func (s *Server) handleExtractBatch(w http.ResponseWriter, r *http.Request) {
	var req ExtractBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Documents) == 0 {
		writeError(w, http.StatusBadRequest, "documents is required")
		return
	}

	opts := domain.MatchOptions{}
	if req.Options != nil {
		opts = *req.Options
	}

	results, err := s.batchService.ExtractBatch(r.Context(), req.Documents, opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "batch aborted")
		return
	}

	resp := ExtractBatchResponse{Results: make([]BatchItemResponse, len(results))}
	for i, br := range results {
		item := BatchItemResponse{DocumentID: br.DocumentID, Result: br.Result}
		if br.Err != nil {
			item.Error = br.Err.Error()
		}
		resp.Results[i] = item
	}
	writeJSON(w, http.StatusOK, resp)
}

// Corpus endpoints

// handleGetCode godoc
// @Summary      Look up a code
// @Tags         Corpus
// @Produce      json
// @Param        code  path      string  true  "ICD-10-CM code"
// @Success      200   {object}  domain.CodeEntry
// @Failure      404   {object}  ErrorResponse
// @Failure      503   {object}  ErrorResponse  "Corpus not loaded"
// @Router       /api/v1/codes/{code} [get]
func (s *Server) handleGetCode(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	entry, err := s.corpusService.Get(r.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyIndex):
			writeError(w, http.StatusServiceUnavailable, "corpus not loaded")
		case errors.Is(err, domain.ErrCodeNotFound):
			writeError(w, http.StatusNotFound, "code not found")
		default:
			writeError(w, http.StatusInternalServerError, "lookup failed")
		}
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// handleCorpusStatus godoc
// @Summary      Corpus status
// @Tags         Corpus
// @Produce      json
// @Success      200  {object}  domain.CorpusStatus
// @Router       /api/v1/corpus/status [get]
func (s *Server) handleCorpusStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.corpusService.Status())
}

// handleCorpusReload godoc
// @Summary      Reload the corpus
// @Description  Re-reads the configured source and swaps in a fresh
// @Description  index; the previous index serves until the swap.
// @Tags         Corpus
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      422  {object}  ErrorResponse  "Malformed corpus"
// @Router       /api/v1/corpus/reload [post]
func (s *Server) handleCorpusReload(w http.ResponseWriter, r *http.Request) {
	if err := s.corpusService.Reload(r.Context()); err != nil {
		if errors.Is(err, domain.ErrCorpusLoad) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "reload failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Helpers

func writeExtractionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyIndex):
		writeError(w, http.StatusServiceUnavailable, "corpus not loaded")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "extraction failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
