package handler

import (
	"encoding/json"
	"net/http"

	"github.com/fooddemand/api/internal/application/otp"
)

// OtpHandler handles the OTP relay endpoints.
type OtpHandler struct {
	svc otp.Service
}

func NewOtpHandler(svc otp.Service) *OtpHandler {
	return &OtpHandler{svc: svc}
}

func (h *OtpHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sessionID, err := h.svc.SendEmailOtp(r.Context(), req.Email)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"sessionId": sessionID})
}

func (h *OtpHandler) SendPhone(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PhoneNumber string `json:"phoneNumber"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sessionID, err := h.svc.SendPhoneOtp(r.Context(), req.PhoneNumber)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"sessionId": sessionID})
}

func (h *OtpHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	if result := h.verify(w, r); result != nil {
		writeJSON(w, http.StatusOK, map[string]string{
			"email":          result.Value,
			"verificationId": result.VerificationID,
		})
	}
}

func (h *OtpHandler) VerifyPhone(w http.ResponseWriter, r *http.Request) {
	if result := h.verify(w, r); result != nil {
		writeJSON(w, http.StatusOK, map[string]string{
			"phoneNumber":    result.Value,
			"verificationId": result.VerificationID,
		})
	}
}

// verify runs the shared verification flow; on failure the response has
// already been written and nil is returned.
func (h *OtpHandler) verify(w http.ResponseWriter, r *http.Request) *otp.VerifyResult {
	var req struct {
		SessionID string `json:"sessionId"`
		OtpCode   string `json:"otpCode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil
	}
	result, err := h.svc.VerifyOtp(r.Context(), req.SessionID, req.OtpCode)
	if err != nil {
		writeDomainError(w, err)
		return nil
	}
	return result
}
