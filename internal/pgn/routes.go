package pgn

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/", h.Root)
	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", h.Chat)
		r.Get("/horarios", h.Hours)
		r.Get("/sedes", h.Offices)
		r.Post("/denuncias", h.FileComplaint)
	})
}
