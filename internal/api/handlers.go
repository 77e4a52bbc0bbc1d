package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/alexanderramin/peplaybook/internal/domain"
	"github.com/alexanderramin/peplaybook/internal/export"
	"github.com/alexanderramin/peplaybook/internal/llm"
	"github.com/alexanderramin/peplaybook/internal/repository"
	"github.com/alexanderramin/peplaybook/internal/service"
)

const maxBodyBytes = 1 << 20

// Response helpers

type apiResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Error: &apiError{Code: code, Message: message},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("failed to encode error response", "error", err)
	}
}

// respondServiceError maps service errors to status codes. Anything
// unrecognized is logged and reported as a 500 without its details.
func (s *Server) respondServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		s.respondError(w, http.StatusBadRequest, "ai_not_configured", err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		s.respondError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, export.ErrUnknownFormat):
		s.respondError(w, http.StatusBadRequest, "unknown_format", err.Error())
	case errors.Is(err, service.ErrInvalidBackup):
		s.respondError(w, http.StatusBadRequest, "invalid_backup", err.Error())
	case errors.Is(err, repository.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "not_found", "playbook not found")
	case errors.Is(err, service.ErrAmbiguousID):
		s.respondError(w, http.StatusConflict, "ambiguous_id", err.Error())
	case errors.Is(err, service.ErrRetentionFull):
		s.respondError(w, http.StatusConflict, "retention_full", err.Error())
	default:
		s.logger.ErrorContext(r.Context(), "request failed", "action", action, "error", err)
		s.respondError(w, http.StatusInternalServerError, "internal_error", "failed to "+action)
	}
}

// decodeBody reads a JSON body of at most limit bytes into dst. Unknown
// fields are rejected.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any, limit int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// Health handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
