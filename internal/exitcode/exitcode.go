// Package exitcode defines exit codes for the CLI.
package exitcode

import (
	"errors"

	"taskdash/internal/apperr"
	"taskdash/internal/session"
)

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates bad arguments, an unknown task or a rejected draft.
	UserError = 1

	// AuthError indicates a missing, expired or rejected session.
	AuthError = 2

	// BackendError indicates a backend or network failure.
	BackendError = 3
)

// FromError maps a failure to the exit code a command should return.
func FromError(err error) int {
	if err == nil {
		return Success
	}
	if errors.Is(err, session.ErrNoSession) {
		return AuthError
	}
	if errors.Is(err, apperr.ErrNotFound) {
		return UserError
	}
	switch apperr.KindOf(err) {
	case apperr.KindAuth:
		return AuthError
	case apperr.KindValidation:
		return UserError
	case apperr.KindNetwork, apperr.KindBackend:
		return BackendError
	default:
		return UserError
	}
}
