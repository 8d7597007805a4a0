package api

import (
	"log/slog"
	"net/http"

	"cardforge/internal/api/shared"
	"cardforge/internal/template"
)

// TemplateHandler exposes the registered card templates.
type TemplateHandler struct {
	registry *template.Registry
	logger   *slog.Logger
}

// NewTemplateHandler creates a TemplateHandler.
func NewTemplateHandler(registry *template.Registry, logger *slog.Logger) *TemplateHandler {
	return &TemplateHandler{
		registry: registry,
		logger:   logger.With("component", "template_handler"),
	}
}

// List handles GET /api/templates requests.
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	names := h.registry.List()
	summaries := make([]TemplateSummary, 0, len(names))
	for _, name := range names {
		tmpl, err := h.registry.Get(name)
		if err != nil {
			// Registry contents can change between List and Get when a
			// template file is removed; skip rather than fail the listing.
			h.logger.Warn("template vanished during listing", "template", name)
			continue
		}
		summaries = append(summaries, TemplateSummary{
			Name:        tmpl.Name,
			Description: tmpl.Description,
			Fields:      tmpl.Fields,
			IsCloze:     tmpl.IsCloze,
		})
	}
	shared.RespondWithJSON(w, r, http.StatusOK, summaries)
}
