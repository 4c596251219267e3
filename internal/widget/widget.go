// Package widget serves the chat widget: the render surface (log, input and
// send control), the bootstrap object with a fresh token, and the client
// script.
package widget

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Vovarama1992/pgn-chatbot/internal/nonce"
	"github.com/Vovarama1992/pgn-chatbot/internal/relay"
)

const (
	ScriptURL = "/static/pgn-chatbot.js"

	// DOM ids the script depends on.
	RootID  = "pgn-chatbot"
	LogID   = "pgn-chat-log"
	InputID = "pgn-chat-input"
	SendID  = "pgn-chat-send"

	pageTitle = "Chatbot PGN"
)

//go:embed assets/pgn-chatbot.js
var script []byte

//go:embed templates/*.html
var templatesFS embed.FS

type TokenIssuer interface {
	Issue(sessionID string) (string, error)
}

// Bootstrap is exposed to the script as window.PGN_CHATBOT.
type Bootstrap struct {
	AjaxURL string `json:"ajax_url"`
	Nonce   string `json:"nonce"`
	Action  string `json:"action"`
}

type view struct {
	Title     string
	Bootstrap Bootstrap
	ScriptURL string
}

type Handler struct {
	issuer       TokenIssuer
	tmpl         *template.Template
	ajaxURL      string
	secureCookie bool
	logger       *zap.Logger
}

func NewHandler(issuer TokenIssuer, ajaxURL string, secureCookie bool, logger *zap.Logger) (*Handler, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "parse widget templates")
	}

	return &Handler{
		issuer:       issuer,
		tmpl:         tmpl,
		ajaxURL:      ajaxURL,
		secureCookie: secureCookie,
		logger:       logger,
	}, nil
}

// Page renders a standalone page hosting the widget.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "page")
}

// Fragment renders only the embeddable widget markup.
func (h *Handler) Fragment(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "widget")
}

func (h *Handler) Script(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.Write(script)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string) {
	sid := nonce.EnsureSession(w, r, h.secureCookie)

	tok, err := h.issuer.Issue(sid)
	if err != nil {
		h.logger.Error("issue widget token", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	err = h.tmpl.ExecuteTemplate(&buf, name, view{
		Title: pageTitle,
		Bootstrap: Bootstrap{
			AjaxURL: h.ajaxURL,
			Nonce:   tok,
			Action:  relay.ActionChat,
		},
		ScriptURL: ScriptURL,
	})
	if err != nil {
		h.logger.Error("render widget", zap.String("template", name), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}
