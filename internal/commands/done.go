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
	Register(&DoneCmd{})
	Register(&UndoCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"complete"} }
func (c *DoneCmd) Synopsis() string  { return "Mark a task completed" }
func (c *DoneCmd) Usage() string     { return "taskdash done <ref>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	return runSetCompleted(ctx, cfg, env, args, true, out, errOut)
}

// UndoCmd moves a completed task back to To-Do.
type UndoCmd struct{}

func (c *UndoCmd) Name() string      { return "undo" }
func (c *UndoCmd) Aliases() []string { return []string{"reopen"} }
func (c *UndoCmd) Synopsis() string  { return "Mark a task not completed" }
func (c *UndoCmd) Usage() string     { return "taskdash undo <ref>" }
func (c *UndoCmd) NeedsAuth() bool   { return true }

func (c *UndoCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UndoCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	return runSetCompleted(ctx, cfg, env, args, false, out, errOut)
}

// runSetCompleted toggles the task when its flag differs from completed.
func runSetCompleted(ctx context.Context, cfg *config.Config, env *Env, args []string, completed bool, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	tok := env.Session.Get()
	t, err := resolveTask(ctx, env.Backend, tok, ref)
	if err != nil {
		return fail(cfg, errOut, err)
	}

	if t.Completed == completed {
		if !cfg.Quiet {
			if completed {
				fmt.Fprintln(out, "already completed")
			} else {
				fmt.Fprintln(out, "already pending")
			}
		}
		return exitcode.Success
	}

	if _, err := env.Backend.EditTask(ctx, tok, t.Toggled()); err != nil {
		return fail(cfg, errOut, err)
	}
	return okLine(cfg, out)
}
