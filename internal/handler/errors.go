package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pkordes/globetrotter/backend/internal/domain"
)

// errorBody is the JSON shape of every error response:
//
//	{"error":{"code":"not_found","message":"trip not found"}}
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// internalErrorBody is sent when a response value cannot be encoded, e.g.
// because it holds a non-finite float.
var internalErrorBody = []byte(`{"error":{"code":"internal_error","message":"internal server error"}}` + "\n")

// writeJSON encodes v before touching the response so an encoding failure
// can still be reported as a 500 instead of a truncated body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status, body = http.StatusInternalServerError, internalErrorBody
	} else {
		body = append(body, '\n')
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck
	w.Write(body)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

func writeValidation(w http.ResponseWriter, msg string, details map[string]string) {
	writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: errorDetail{
		Code:    "validation_error",
		Message: msg,
		Details: details,
	}})
}

// errMessages holds the per-route messages for domain.ErrNotFound and
// domain.ErrConflict, so each route can name what was missing or clashed.
type errMessages struct {
	notFound string
	conflict string
}

// handleError maps a service error onto its HTTP status.
// Anything unrecognised is logged and reported as a bare 500.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error, msgs errMessages) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeValidation(w, "request failed validation", verr.Fields)
	case errors.Is(err, domain.ErrValidation):
		writeValidation(w, err.Error(), nil)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", msgs.notFound)
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", "not authorized to access this trip")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid email or password")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusBadRequest, "conflict", msgs.conflict)
	default:
		s.logger.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
