package guard

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"taskdash/internal/session"
)

// Validator checks a token's signature and expiry and returns its claims.
type Validator interface {
	Validate(ctx context.Context, tok session.Token) (session.Claims, error)
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(ctx context.Context, tok session.Token) (session.Claims, error)

// Validate implements Validator.
func (f ValidatorFunc) Validate(ctx context.Context, tok session.Token) (session.Claims, error) {
	return f(ctx, tok)
}

// HMACValidator verifies HS256 tokens signed with the backend's shared secret.
type HMACValidator struct {
	secret []byte
	parser *jwt.Parser
}

// NewHMACValidator returns a validator for secret. An empty secret rejects every token.
func NewHMACValidator(secret string) *HMACValidator {
	return &HMACValidator{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

// Validate implements Validator.
func (v *HMACValidator) Validate(ctx context.Context, tok session.Token) (session.Claims, error) {
	if tok.Empty() {
		return session.Claims{}, session.ErrNoSession
	}
	if len(v.secret) == 0 {
		return session.Claims{}, errors.New("guard: no secret configured")
	}
	if err := ctx.Err(); err != nil {
		return session.Claims{}, err
	}
	var c session.Claims
	_, err := v.parser.ParseWithClaims(string(tok), &c, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return session.Claims{}, err
	}
	return c, nil
}
