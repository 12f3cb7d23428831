package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/fooddemand/api/internal/application/dataset"
	"github.com/fooddemand/api/internal/domain"
	"github.com/fooddemand/api/internal/transport/http/middleware"
)

// maxUploadBytes bounds dataset uploads at 32 MiB.
const maxUploadBytes = 32 << 20

// DatasetHandler handles dataset import, retrieval and upload history.
type DatasetHandler struct {
	svc dataset.Service
}

func NewDatasetHandler(svc dataset.Service) *DatasetHandler {
	return &DatasetHandler{svc: svc}
}

// DatasetEnvelope wraps dataset retrieval responses.
type DatasetEnvelope struct {
	Dataset *domain.Dataset        `json:"dataset"`
	Summary *domain.DatasetSummary `json:"summary"`
}

// Upload accepts a multipart dataset file plus optional mapping override
// fields (date, itemName, quantity, revenue). Blocking validation errors
// return 422 with the full health report.
func (h *DatasetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unable to read file")
		return
	}

	override := domain.ColumnMapping{
		Date:     r.FormValue("date"),
		ItemName: r.FormValue("itemName"),
		Quantity: r.FormValue("quantity"),
		Revenue:  r.FormValue("revenue"),
	}

	result, err := h.svc.Upload(r.Context(), principal.UserID, header.Filename, data, override)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !result.Accepted {
		writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *DatasetHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	ds, summary, err := h.svc.Get(r.Context(), principal.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DatasetEnvelope{Dataset: ds, Summary: summary})
}

func (h *DatasetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.Delete(r.Context(), principal.UserID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "dataset cleared"})
}

func (h *DatasetHandler) History(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	records, err := h.svc.History(r.Context(), principal.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if records == nil {
		records = []domain.UploadRecord{}
	}
	writeJSON(w, http.StatusOK, map[string][]domain.UploadRecord{"history": records})
}

func (h *DatasetHandler) RemoveHistory(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.RemoveHistory(r.Context(), principal.UserID, req.IDs); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "history entries removed"})
}
