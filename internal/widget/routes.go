package widget

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/", h.Page)
	r.Get("/widget", h.Fragment)
	r.Get(ScriptURL, h.Script)
}
