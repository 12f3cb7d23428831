package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fooddemand/api/internal/domain"
)

// MessageEnvelope is the generic response wrapper. Errors go on the wire as a
// bare message string, no structured codes.
type MessageEnvelope struct {
	Message string `json:"message"`
}

// AuthEnvelope wraps login/register responses. The user rides inside the
// session.
type AuthEnvelope struct {
	Bearer  string          `json:"bearer"`
	Session *domain.Session `json:"session"`
}

// SessionEnvelope wraps current-session responses.
type SessionEnvelope struct {
	Session *domain.Session `json:"session"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Message: msg})
}

// writeDomainError maps a service error to an HTTP status and puts its
// message on the wire.
func writeDomainError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
