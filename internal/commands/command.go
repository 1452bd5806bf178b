// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"taskdash/internal/config"
	"taskdash/internal/gateway"
	"taskdash/internal/session"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command requires a stored session.
	// Commands like help, version, login, logout return false.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, paths, settings).
	// env.Backend is nil unless NeedsAuth or NeedsBackend returns true.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int
}

// BackendUser is implemented by commands that talk to the backend without
// a stored session, such as login and serve.
type BackendUser interface {
	NeedsBackend() bool
}

// Env carries the collaborators built by the dispatcher.
type Env struct {
	// Backend serves tasks and credentials.
	Backend gateway.Backend

	// Session holds the token loaded from Sessions for NeedsAuth commands.
	Session *session.Holder

	// Sessions persists the token between invocations.
	Sessions *session.FileStore

	// In is read for passwords when no flag or environment value is given.
	In io.Reader
}

// NeedsBackend reports whether the dispatcher must build a backend for c.
func NeedsBackend(c Command) bool {
	if c.NeedsAuth() {
		return true
	}
	b, ok := c.(BackendUser)
	return ok && b.NeedsBackend()
}
