package relay

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"go.uber.org/zap"

	"github.com/Vovarama1992/pgn-chatbot/internal/nonce"
)

const maxFormBody = 64 << 10

type Handler struct {
	svc    Service
	logger *zap.Logger
}

func NewHandler(svc Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

type envelope struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

type failure struct {
	Success bool        `json:"success"`
	Data    failureData `json:"data"`
}

type failureData struct {
	Error string `json:"error"`
}

// HandleAjax is the widget's only endpoint. Fields: action, mensaje,
// _ajax_nonce.
func (h *Handler) HandleAjax(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBody)
	if err := parseForm(r); err != nil {
		writeFailure(w, http.StatusBadRequest, "Solicitud inválida")
		return
	}

	switch r.FormValue("action") {
	case ActionChat:
		h.handleChat(w, r)
	default:
		writeFailure(w, http.StatusBadRequest, "Acción desconocida")
	}
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	reply, err := h.svc.Relay(r.Context(), Request{
		Message:   r.FormValue("mensaje"),
		Token:     r.FormValue("_ajax_nonce"),
		SessionID: nonce.SessionID(r),
	})
	if err != nil {
		var rerr *Error
		if errors.As(err, &rerr) {
			writeFailure(w, rerr.Status(), rerr.Msg)
			return
		}
		h.logger.Error("relay failed", zap.Error(err))
		writeFailure(w, http.StatusInternalServerError, "Error interno")
		return
	}

	writeJSON(w, reply.StatusCode, envelope{
		Status: reply.StatusCode,
		Data:   reply.Payload,
	})
}

func parseForm(r *http.Request) error {
	ct := r.Header.Get("Content-Type")
	if ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return err
		}
		if mt == "multipart/form-data" {
			return r.ParseMultipartForm(maxFormBody)
		}
	}
	return r.ParseForm()
}

func writeFailure(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, failure{Data: failureData{Error: msg}})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
