package relay

import (
	"context"
	"encoding/json"
	"net/http"
)

// ActionChat is the form action the widget posts.
const ActionChat = "pgn_chat"

// Request is one chat submission as received from the widget.
type Request struct {
	Message   string
	Token     string
	SessionID string
}

// Reply is the upstream answer, passed through untouched. Payload is nil when
// the upstream body was not JSON.
type Reply struct {
	StatusCode int
	Payload    json.RawMessage
}

// IsUpstreamError reports whether the upstream answered with a non-2xx code.
func (r *Reply) IsUpstreamError() bool {
	return r.StatusCode < 200 || r.StatusCode >= 300
}

// Upstream is the external chat API.
type Upstream interface {
	Chat(ctx context.Context, message string) (*Reply, error)
}

// Verifier checks a forgery-prevention token against a session.
type Verifier interface {
	Verify(token, sessionID string) error
}

type Service interface {
	Relay(ctx context.Context, req Request) (*Reply, error)
}

type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuth
	KindUpstreamUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindUpstreamUnavailable:
		return "upstream_unavailable"
	default:
		return "unknown"
	}
}

// Error is a terminal relay failure. Msg is safe to show to the client.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Msg + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Status maps the failure to its HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
