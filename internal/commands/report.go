package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"taskdash/internal/apperr"
	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/logging"
	"taskdash/internal/session"
)

// fail prints err as "error: ..." and returns the matching exit code.
func fail(cfg *config.Config, errOut io.Writer, err error) int {
	if e, ok := apperr.As(err); ok {
		logger(cfg).Debug("command failed", "op", e.Op, "kind", e.Kind.String(), "status", e.Status, "err", err)
	}

	switch {
	case errors.Is(err, session.ErrNoSession):
		fmt.Fprintln(errOut, "error: not logged in (run: taskdash login)")
	case apperr.KindOf(err) == apperr.KindAuth:
		fmt.Fprintf(errOut, "error: auth error: %s (run: taskdash login)\n", apperr.UserMessage(err))
	case apperr.KindOf(err) == apperr.KindNetwork:
		e, _ := apperr.As(err)
		fmt.Fprintf(errOut, "error: backend unreachable: %v\n", e.Cause)
	case apperr.KindOf(err) == apperr.KindBackend:
		fmt.Fprintf(errOut, "error: backend error: %s\n", apperr.UserMessage(err))
	default:
		fmt.Fprintf(errOut, "error: %s\n", apperr.UserMessage(err))
	}
	return exitcode.FromError(err)
}

// okLine prints "ok" unless quiet.
func okLine(cfg *config.Config, out io.Writer) int {
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// logger returns cfg.Log, or a discarding logger when none is set.
func logger(cfg *config.Config) *slog.Logger {
	if cfg.Log == nil {
		return logging.Discard()
	}
	return cfg.Log
}
