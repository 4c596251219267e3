// Package nonce issues and checks the widget's forgery-prevention tokens.
//
// A token is an HS256 JWT bound to one browser session (see session.go) and
// to the chat action. The page that renders the widget issues it; the relay
// verifies it on every request.
package nonce

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Action is the only action tokens are minted for.
const Action = "pgn_chatbot_nonce"

var (
	ErrMissing         = errors.New("nonce: missing token")
	ErrInvalid         = errors.New("nonce: invalid token")
	ErrExpired         = errors.New("nonce: token expired")
	ErrSessionMismatch = errors.New("nonce: token issued for another session")
)

type claims struct {
	Action  string `json:"act"`
	Session string `json:"sid"`
	jwt.RegisteredClaims
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue mints a token for sessionID.
func (i *Issuer) Issue(sessionID string) (string, error) {
	if sessionID == "" {
		return "", errors.New("nonce: empty session id")
	}

	now := i.now()
	c := claims{
		Action:  Action,
		Session: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.secret)
}

// Verify checks signature, expiry, action and session binding.
func (i *Issuer) Verify(token, sessionID string) error {
	if token == "" {
		return ErrMissing
	}

	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrExpired
		}
		return ErrInvalid
	}

	if c.Action != Action {
		return ErrInvalid
	}
	if sessionID == "" || subtle.ConstantTimeCompare([]byte(c.Session), []byte(sessionID)) != 1 {
		return ErrSessionMismatch
	}
	return nil
}
