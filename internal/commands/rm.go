package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdash/internal/config"
	"taskdash/internal/exitcode"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "taskdash rm <ref>" }
func (c *RmCmd) NeedsAuth() bool   { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	tok := env.Session.Get()
	id := ref.ID
	if !ref.IsLiteral() {
		t, err := resolveTask(ctx, env.Backend, tok, ref)
		if err != nil {
			return fail(cfg, errOut, err)
		}
		id = t.ID
	}

	// Literal IDs go straight to the backend, which reports unknown ones.
	if err := env.Backend.DeleteTask(ctx, tok, id); err != nil {
		return fail(cfg, errOut, err)
	}
	return okLine(cfg, out)
}
