package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/oshima-research/edinet-cli/internal/model"
	"github.com/oshima-research/edinet-cli/internal/store"
)

// Handler implements the API endpoints.
type Handler struct {
	store store.Store
}

// NewHandler creates a handler over the given store.
func NewHandler(st store.Store) *Handler {
	return &Handler{store: st}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListRecords returns company records, filterable by sec_code and date.
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.RecordFilter{
		SecCode:       q.Get("sec_code"),
		RetrievedDate: q.Get("date"),
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		filter.Offset = n
	}

	records, err := h.store.ListRecords(r.Context(), filter)
	if err != nil {
		zap.L().Error("list records failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if records == nil {
		records = []model.CompanyRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// GetRecord returns one company record by document id.
func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")

	rec, err := h.store.GetRecord(r.Context(), docID)
	if err != nil {
		zap.L().Error("get record failed", zap.String("doc_id", docID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
