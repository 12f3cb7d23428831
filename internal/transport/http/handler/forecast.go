package handler

import (
	"encoding/json"
	"net/http"

	"github.com/fooddemand/api/internal/application/forecast"
	"github.com/fooddemand/api/internal/transport/http/middleware"
)

// ForecastHandler proxies forecast requests for the caller's stored dataset.
type ForecastHandler struct {
	svc forecast.Service
}

func NewForecastHandler(svc forecast.Service) *ForecastHandler {
	return &ForecastHandler{svc: svc}
}

func (h *ForecastHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req forecast.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	resp, err := h.svc.Forecast(r.Context(), principal.UserID, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
