package pgn

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

const maxJSONBody = 64 << 10

type Handler struct {
	svc    Service
	logger *zap.Logger
}

func NewHandler(svc Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

type detail struct {
	Detail any `json:"detail"`
}

func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  statusOK,
		"mensaje": "PGN Chatbot API",
	})
}

// Chat answers POST /api/chat {"mensaje": "..."}.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var in ChatIn
	if !decodeJSON(w, r, &in) {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Chat(r.Context(), in.Message))
}

func (h *Handler) Hours(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Hours())
}

// Offices answers GET /api/sedes[?departamento=...].
func (h *Handler) Offices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, OfficesReply{
		Status:  statusOK,
		Offices: h.svc.Offices(r.URL.Query().Get("departamento")),
	})
}

func (h *Handler) FileComplaint(w http.ResponseWriter, r *http.Request) {
	var in ComplaintIn
	if !decodeJSON(w, r, &in) {
		return
	}

	c, err := h.svc.FileComplaint(r.Context(), in)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusUnprocessableEntity, detail{Detail: verr.Fields})
			return
		}
		h.logger.Error("file complaint", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, detail{Detail: "error interno"})
		return
	}

	writeJSON(w, http.StatusOK, ComplaintOut{
		Status:  statusOK,
		ID:      c.ID,
		Message: complaintRegistered,
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, detail{Detail: "invalid json"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
