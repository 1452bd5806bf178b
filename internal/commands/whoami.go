package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/session"
)

func init() {
	Register(&WhoamiCmd{})
}

// WhoamiCmd prints the name carried by the stored session.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Name() string      { return "whoami" }
func (c *WhoamiCmd) Aliases() []string { return nil }
func (c *WhoamiCmd) Synopsis() string  { return "Show the signed-in user" }
func (c *WhoamiCmd) Usage() string     { return "taskdash whoami [common flags]" }
func (c *WhoamiCmd) NeedsAuth() bool   { return true }

func (c *WhoamiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	claims, err := session.ParseClaims(env.Session.Get())
	if err != nil {
		fmt.Fprintf(errOut, "error: unreadable session: %v\n", err)
		return exitcode.AuthError
	}
	if claims.Name == "" {
		fmt.Fprintln(errOut, "error: session carries no name")
		return exitcode.AuthError
	}
	if claims.Email != "" {
		fmt.Fprintf(out, "%s <%s>\n", claims.Name, claims.Email)
	} else {
		fmt.Fprintln(out, claims.Name)
	}
	return exitcode.Success
}
