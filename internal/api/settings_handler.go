package api

import (
	"log/slog"
	"net/http"

	"cardforge/internal/api/shared"
	"cardforge/internal/settings"
)

// SettingsHandler exposes the mutable runtime settings.
type SettingsHandler struct {
	service *settings.Service
	logger  *slog.Logger
}

// NewSettingsHandler creates a SettingsHandler.
func NewSettingsHandler(service *settings.Service, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{
		service: service,
		logger:  logger.With("component", "settings_handler"),
	}
}

// Get handles GET /api/settings requests.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.service.Current())
}

// Update handles PUT /api/settings requests. The full snapshot is
// replaced; partial updates are not supported.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var snap settings.Snapshot
	if err := shared.DecodeJSON(r, &snap); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid request format")
		return
	}

	if err := h.service.Update(snap); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.logger.Info("settings updated",
		"default_template", snap.DefaultTemplate,
		"default_card_count", snap.DefaultCardCount)
	shared.RespondWithJSON(w, r, http.StatusOK, h.service.Current())
}
