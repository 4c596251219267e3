package relay

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, path string, h *Handler) {
	r.Post(path, h.HandleAjax)
}
