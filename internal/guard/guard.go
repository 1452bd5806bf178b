// Package guard decides, per navigation, whether a request may proceed or
// must be redirected based on the validity of the session cookie.
package guard

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"taskdash/internal/session"
)

// State is the authentication state of one request.
type State int

const (
	// Unknown means validation has not completed.
	Unknown State = iota
	Unauthenticated
	Authenticated
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Decision is the outcome for one navigation. Redirect is empty for pass-through.
type Decision struct {
	State    State
	Redirect string
	Claims   session.Claims
}

// Options configures the route sets.
type Options struct {
	Protected []string      // default ["/home"]
	Public    []string      // default ["/", "/signup"]
	Entry     string        // default "/"
	Home      string        // default "/home"
	Timeout   time.Duration // validation budget, default 3s
	Logger    *slog.Logger
}

// Guard applies the redirect rules. It keeps no state between requests.
type Guard struct {
	validator Validator
	opts      Options
	log       *slog.Logger
}

// New returns a guard using v for token validation.
func New(v Validator, opts Options) *Guard {
	if opts.Protected == nil {
		opts.Protected = []string{"/home"}
	}
	if opts.Public == nil {
		opts.Public = []string{"/", "/signup"}
	}
	if opts.Entry == "" {
		opts.Entry = "/"
	}
	if opts.Home == "" {
		opts.Home = "/home"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 3 * time.Second
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Guard{validator: v, opts: opts, log: log}
}

// Decide validates tok once and applies the redirect rules for path.
// Validation errors and timeouts count as an invalid token.
func (g *Guard) Decide(ctx context.Context, path string, tok session.Token) Decision {
	d := Decision{State: Unauthenticated}
	if claims, ok := g.validate(ctx, tok); ok {
		d.State = Authenticated
		d.Claims = claims
	}

	switch {
	case slices.Contains(g.opts.Protected, path) && d.State != Authenticated:
		d.Redirect = g.opts.Entry
	case slices.Contains(g.opts.Public, path) && d.State == Authenticated:
		d.Redirect = g.opts.Home
	}
	return d
}

func (g *Guard) validate(ctx context.Context, tok session.Token) (session.Claims, bool) {
	if tok.Empty() {
		return session.Claims{}, false
	}

	ctx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()

	type result struct {
		claims session.Claims
		err    error
	}
	ch := make(chan result, 1)
	go func() {
		c, err := g.validator.Validate(ctx, tok)
		ch <- result{c, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			g.log.Debug("token rejected", "err", r.err)
			return session.Claims{}, false
		}
		return r.claims, true
	case <-ctx.Done():
		g.log.Warn("token validation timed out", "timeout", g.opts.Timeout)
		return session.Claims{}, false
	}
}

type claimsKey struct{}

// ClaimsFrom returns the verified claims stored by Middleware.
func ClaimsFrom(ctx context.Context) (session.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(session.Claims)
	return c, ok
}

// TokenFrom reads the session cookie of r.
func TokenFrom(r *http.Request) session.Token {
	c, err := r.Cookie(session.CookieName)
	if err != nil {
		return ""
	}
	return session.Token(c.Value)
}

// Middleware runs Decide for every request before next sees it.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d := g.Decide(r.Context(), r.URL.Path, TokenFrom(r))
		g.log.Debug("route guard", "path", r.URL.Path, "state", d.State.String(), "redirect", d.Redirect)

		if d.Redirect != "" {
			http.Redirect(w, r, d.Redirect, http.StatusFound)
			return
		}
		if d.State == Authenticated {
			r = r.WithContext(context.WithValue(r.Context(), claimsKey{}, d.Claims))
		}
		next.ServeHTTP(w, r)
	})
}
