// Package api serves the record collection over HTTP.
package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/library"
)

// NewRouter creates the Chi router with all routes and middleware.
func NewRouter(lib *library.Library, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(CORS)
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recovery(logger))

	h := NewHandler(lib)

	r.Get("/health", h.Health)

	r.Route("/records", func(r chi.Router) {
		r.Get("/", h.Records)
		r.Get("/filtered", h.Filtered)
		r.Get("/{id}", h.Record)
		r.Post("/{id}/star", h.ToggleStar)
	})

	r.Get("/calendar", h.Calendar)
	r.Get("/analytics", h.Analytics)
	r.Post("/ingest", h.Ingest)
	r.Get("/export", h.Export)

	return r
}
