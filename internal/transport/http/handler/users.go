package handler

import (
	"encoding/json"
	"net/http"

	"github.com/fooddemand/api/internal/application/account"
	"github.com/fooddemand/api/internal/domain"
	"github.com/fooddemand/api/internal/pkg/validate"
)

// UserHandler handles registration.
type UserHandler struct {
	svc account.Service
}

func NewUserHandler(svc account.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

// Register consumes a verificationId minted by OTP verification and creates
// the account plus its first session.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess, bearer, err := h.svc.Register(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, AuthEnvelope{Bearer: bearer, Session: sess})
}
