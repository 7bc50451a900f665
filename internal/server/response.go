package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexanderramin/workweek/internal/domain"
	"github.com/alexanderramin/workweek/internal/repository"
	"github.com/alexanderramin/workweek/internal/service"
)

// writeJSON writes v as JSON with the given HTTP status code.
// Logs a warning if JSON encoding fails.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("writeJSON: encoding response", "error", err)
	}
}

// writeError writes a JSON error response with the given status
// and message.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, jsonError{Error: msg})
}

// handleContextError detects context.Canceled and
// context.DeadlineExceeded errors, returning true so the
// caller stops processing. It does NOT write an HTTP
// response; the withTimeout middleware answers with 503.
func handleContextError(_ http.ResponseWriter, err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// statusFor maps service and domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case service.IsInvalidWeek(err),
		errors.Is(err, domain.ErrInvalidWeek),
		errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDataIntegrity),
		errors.Is(err, domain.ErrInvalidTimestamp):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError writes err with the status from statusFor. Context
// errors are left to the timeout middleware.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if handleContextError(w, err) {
		return
	}
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	writeError(w, status, err.Error())
}
