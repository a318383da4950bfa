package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/skyhopper/flight-compare/backend/internal/domain"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes.
const (
	CodeValidation      = "validation_error"
	CodeNotFound        = "not_found"
	CodeUpstream        = "upstream_error"
	CodeFeatureDisabled = "feature_disabled"
	CodeInternal        = "internal"
)

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorBody(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// requestError rejects a bad request before it reaches the service layer
// (e.g. malformed body or query parameter).
func requestError(w http.ResponseWriter, message string) {
	writeErrorBody(w, http.StatusUnprocessableEntity, CodeValidation, message)
}

// writeError maps a service error onto the HTTP error contract. what names
// the thing being looked up ("flight", "session") for not-found messages.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, what string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeErrorBody(w, http.StatusUnprocessableEntity, CodeValidation, unwrapMessage(err))
	case errors.Is(err, domain.ErrNotFound):
		writeErrorBody(w, http.StatusNotFound, CodeNotFound, what+" not found")
	case errors.Is(err, domain.ErrFeatureDisabled):
		writeErrorBody(w, http.StatusServiceUnavailable, CodeFeatureDisabled, what+" is not available")
	case errors.Is(err, domain.ErrUpstream):
		writeErrorBody(w, http.StatusBadGateway, CodeUpstream, "upstream service unavailable, please try again")
	default:
		s.log.ErrorContext(r.Context(), "unhandled error",
			slog.String("path", r.URL.Path),
			slog.String("request_id", chimiddleware.GetReqID(r.Context())),
			slog.String("error", err.Error()),
		)
		writeErrorBody(w, http.StatusInternalServerError, CodeInternal, "internal server error")
	}
}

// unwrapMessage extracts the human-readable part from a wrapped validation error.
// e.g. "service.SessionService.Search: validation error: from is required" → "from is required"
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	marker := domain.ErrValidation.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 && len(msg) > i+len(marker) {
		return msg[i+len(marker):]
	}
	return msg
}
