package nonce

import (
	"net/http"

	"github.com/google/uuid"
)

const (
	CookieName = "pgn_chat_sid"

	cookieMaxAge = 86400
)

// SessionID returns the session id carried by r, or "" when there is none
// or it is malformed.
func SessionID(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return ""
	}
	return c.Value
}

// EnsureSession returns the request's session id, minting one and setting
// the cookie on w if needed.
func EnsureSession(w http.ResponseWriter, r *http.Request, secure bool) string {
	if id := SessionID(r); id != "" {
		return id
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   cookieMaxAge,
	})
	return id
}
