// Package apperr defines the error taxonomy shared by the gateway, the CLI and the web front.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind is the category of a failure.
type Kind int

const (
	// KindUnknown is the zero Kind; errors not produced by this package report it.
	KindUnknown Kind = iota

	// KindNetwork covers transport, DNS and timeout failures.
	KindNetwork

	// KindAuth covers a missing, invalid or rejected token.
	KindAuth

	// KindValidation covers malformed drafts and malformed backend payloads.
	KindValidation

	// KindBackend covers non-2xx responses.
	KindBackend
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	case KindBackend:
		return "backend"
	default:
		return "unknown"
	}
}

// FieldError describes one invalid field.
type FieldError struct {
	Field  string
	Reason string
}

func (fe FieldError) String() string {
	return fe.Field + ": " + fe.Reason
}

// Error is the single error type surfaced by the gateway.
type Error struct {
	Kind    Kind
	Op      string // e.g. "fetch tasks", "login"
	Status  int    // HTTP status for KindBackend and KindAuth, 0 otherwise
	Message string
	Fields  []FieldError
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if msg := e.message(); msg != "" {
		b.WriteString(": ")
		b.WriteString(msg)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, " (caused by: %v)", e.Cause)
	}
	return b.String()
}

func (e *Error) message() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Fields) > 0 {
		parts := make([]string, len(e.Fields))
		for i, f := range e.Fields {
			parts[i] = f.String()
		}
		return strings.Join(parts, "; ")
	}
	if e.Status != 0 {
		return http.StatusText(e.Status)
	}
	return ""
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same Kind.
// A target with a non-zero Status must match it too.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Status != 0 && t.Status != e.Status {
		return false
	}
	return e.Kind == t.Kind
}

// NotFound reports whether the backend answered 404.
func (e *Error) NotFound() bool {
	return e.Kind == KindBackend && e.Status == http.StatusNotFound
}

// Sentinels for errors.Is.
var (
	ErrNetwork    = &Error{Kind: KindNetwork}
	ErrAuth       = &Error{Kind: KindAuth}
	ErrValidation = &Error{Kind: KindValidation}
	ErrBackend    = &Error{Kind: KindBackend}
	ErrNotFound   = &Error{Kind: KindBackend, Status: http.StatusNotFound}
)

// Network wraps a transport failure.
func Network(op string, cause error) *Error {
	return &Error{Kind: KindNetwork, Op: op, Cause: cause}
}

// Auth reports a missing or rejected credential.
func Auth(op, message string) *Error {
	return &Error{Kind: KindAuth, Op: op, Message: message}
}

// Validation reports one or more invalid fields.
func Validation(op string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Op: op, Fields: fields}
}

// Malformed reports a payload that could not be decoded.
func Malformed(op string, cause error) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: "malformed response", Cause: cause}
}

// Backend reports a non-success status.
func Backend(op string, status int, message string) *Error {
	return &Error{Kind: KindBackend, Op: op, Status: status, Message: message}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the Kind of err, or KindUnknown.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindUnknown
}

// UserMessage returns text suitable for showing inline to a user.
func UserMessage(err error) string {
	e, ok := As(err)
	if !ok {
		return err.Error()
	}
	switch e.Kind {
	case KindNetwork:
		return "Internal Server Error"
	case KindAuth:
		if e.Message != "" {
			return e.Message
		}
		return "not logged in"
	case KindValidation, KindBackend:
		if msg := e.message(); msg != "" {
			return msg
		}
	}
	return "unexpected error"
}
