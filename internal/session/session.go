// Package session owns the bearer token of the current user session.
package session

import (
	"errors"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the name of the cookie (and session file) holding the token.
const CookieName = "user"

// ErrNoSession is returned when no token has been stored.
var ErrNoSession = errors.New("not logged in")

// Token is an opaque bearer credential.
type Token string

// Empty reports whether the token is absent.
func (t Token) Empty() bool {
	return t == ""
}

// Holder holds the token for one session. The zero value is an empty holder.
type Holder struct {
	mu  sync.RWMutex
	tok Token
}

// NewHolder returns a holder preloaded with tok.
func NewHolder(tok Token) *Holder {
	return &Holder{tok: tok}
}

// Get returns the current token, possibly empty.
func (h *Holder) Get() Token {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.tok
}

// Set replaces the token after a successful login or signup.
func (h *Holder) Set(tok Token) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.tok = tok
}

// Clear drops the token on logout.
func (h *Holder) Clear() {
	h.Set("")
}

// Claims is the part of the token payload this application reads.
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// ParseClaims decodes the payload without verifying the signature.
// Only use the result for display.
func ParseClaims(tok Token) (Claims, error) {
	if tok.Empty() {
		return Claims{}, ErrNoSession
	}
	var c Claims
	if _, _, err := jwt.NewParser().ParseUnverified(string(tok), &c); err != nil {
		return Claims{}, err
	}
	return c, nil
}
