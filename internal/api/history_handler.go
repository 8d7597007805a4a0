package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"cardforge/internal/api/shared"
	"cardforge/internal/domain"
	"cardforge/internal/history"
)

// HistoryHandler exposes past generation runs and their export files.
type HistoryHandler struct {
	store  *history.Store
	logger *slog.Logger
}

// NewHistoryHandler creates a HistoryHandler.
func NewHistoryHandler(store *history.Store, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{
		store:  store,
		logger: logger.With("component", "history_handler"),
	}
}

// List handles GET /api/history requests. Records come back newest first.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.List(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	entries := make([]HistoryEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, newHistoryEntry(rec))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, entries)
}

// Get handles GET /api/history/{id} requests.
func (h *HistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.lookup(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newHistoryEntry(rec))
}

// Delete handles DELETE /api/history/{id} requests. Only the record is
// removed; export files stay on disk.
func (h *HistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid history ID")
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.logger.Info("history record deleted", "record_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// DownloadFile handles GET /api/history/{id}/files/{format} requests,
// serving the export artifact recorded for the given format.
func (h *HistoryHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.lookup(w, r)
	if !ok {
		return
	}

	format, err := domain.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "unknown export format")
		return
	}

	path, ok := rec.Files[format]
	if !ok {
		shared.RespondWithError(w, r, http.StatusNotFound, "no file recorded for format")
		return
	}

	// Paths are written by the exporter, never by clients, but the file
	// can have been cleaned up since the record was saved.
	if _, err := os.Stat(path); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusNotFound, "export file no longer available", err)
		return
	}

	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	http.ServeFile(w, r, path)
}

func (h *HistoryHandler) lookup(w http.ResponseWriter, r *http.Request) (history.Record, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid history ID")
		return history.Record{}, false
	}

	rec, err := h.store.Get(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return history.Record{}, false
	}
	return rec, true
}
