package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"cardforge/internal/api/middleware"
	"cardforge/internal/api/shared"
)

// Handlers groups the handlers the router mounts.
type Handlers struct {
	Generate *GenerateHandler
	Template *TemplateHandler
	Settings *SettingsHandler
	History  *HistoryHandler
	Progress *ProgressHandler
}

// NewRouter assembles the HTTP routing table.
func NewRouter(h Handlers) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.TraceMiddleware)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		shared.RespondWithJSON(w, req, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/generate", h.Generate.Generate)
		r.Get("/requests/{id}", h.Generate.Status)

		r.Get("/templates", h.Template.List)

		r.Get("/settings", h.Settings.Get)
		r.Put("/settings", h.Settings.Update)

		r.Get("/history", h.History.List)
		r.Get("/history/{id}", h.History.Get)
		r.Delete("/history/{id}", h.History.Delete)
		r.Get("/history/{id}/files/{format}", h.History.DownloadFile)

		r.Get("/progress/ws", h.Progress.Stream)
	})

	return r
}
