package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/doeshing/guruji/internal/application/history"
	"github.com/doeshing/guruji/internal/domain"
)

const maxBodyBytes = 8 << 20

type analyzeRequest struct {
	Mode       string `json:"mode"`
	Code       string `json:"code"`
	Code2      string `json:"code2"`
	Language   string `json:"language"`
	Difficulty string `json:"difficulty"`
}

type analyzeResponse struct {
	Result    string `json:"result"`
	Model     string `json:"model"`
	Provider  string `json:"provider,omitempty"`
	HistoryID string `json:"history_id"`
}

type themeBody struct {
	Theme domain.Theme `json:"theme"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var body analyzeRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	result, err := s.analyzer.Analyze(r.Context(), domain.AnalysisRequest{
		Mode:       domain.Mode(body.Mode),
		Code:       body.Code,
		SecondCode: body.Code2,
		Language:   domain.Language(body.Language),
		Difficulty: domain.Difficulty(body.Difficulty),
	})
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, analyzeResponse{
		Result:    result.Text,
		Model:     result.Model,
		Provider:  result.Provider,
		HistoryID: result.HistoryID,
	})
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	if term := r.URL.Query().Get("q"); term != "" {
		respondJSON(w, http.StatusOK, s.history.Search(term))
		return
	}
	respondJSON(w, http.StatusOK, s.history.List())
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.history.Get(r.PathValue("id"))
	if !ok {
		respondError(w, http.StatusNotFound, "history entry not found")
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.history.Delete(r.PathValue("id")); err != nil {
		s.respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.history.Clear(); err != nil {
		s.respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportHistory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", history.ExportFileName(s.now())))
	if err := s.history.Export(w); err != nil {
		s.logger.Error("export history", err, nil)
	}
}

func (s *Server) handleImportHistory(w http.ResponseWriter, r *http.Request) {
	count, err := s.history.Import(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"imported": count})
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, themeBody{Theme: s.theme.Theme()})
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var body themeBody
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if err := s.theme.SetTheme(body.Theme); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, themeBody{Theme: s.theme.Theme()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	check := s.lastCheck
	s.mu.RUnlock()
	respondJSON(w, http.StatusOK, check)
}

func (s *Server) respondDomainError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", err, map[string]interface{}{"status": status})
	}
	respondError(w, status, domain.UserMessage(err))
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyInput), errors.Is(err, domain.ErrInvalidMode),
		errors.Is(err, domain.ErrInvalidLanguage), errors.Is(err, domain.ErrInvalidDifficulty),
		errors.Is(err, domain.ErrImportFormat):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMissingCredential):
		return http.StatusServiceUnavailable
	}
	switch domain.Classify(err) {
	case domain.CategoryCredential:
		return http.StatusUnauthorized
	case domain.CategoryQuota:
		return http.StatusTooManyRequests
	case domain.CategoryNetwork, domain.CategoryEmptyResponse:
		return http.StatusBadGateway
	}
	if errors.Is(err, domain.ErrAllProvidersExhausted) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
