package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/task"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command. Only the given flags change.
type EditCmd struct {
	heading  string
	content  string
	priority string
	deadline string
	set      map[string]bool
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task" }
func (c *EditCmd) Usage() string {
	return "taskdash edit [--heading <text>] [--content <text>] [--priority <p>] [--deadline YYYY-MM-DD] <ref>"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.set = make(map[string]bool)
	mark := func(name string, dst *string) {
		fs.Func(name, "", func(v string) error {
			*dst = v
			c.set[name] = true
			return nil
		})
	}
	mark("heading", &c.heading)
	mark("content", &c.content)
	mark("priority", &c.priority)
	mark("deadline", &c.deadline)
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if len(c.set) == 0 {
		fmt.Fprintln(errOut, "error: nothing to change")
		return exitcode.UserError
	}

	tok := env.Session.Get()
	t, err := resolveTask(ctx, env.Backend, tok, ref)
	if err != nil {
		return fail(cfg, errOut, err)
	}

	d := t.Draft()
	if c.set["heading"] {
		d.Heading = c.heading
	}
	if c.set["content"] {
		d.Content = c.content
	}
	if c.set["priority"] {
		p, err := task.ParsePriority(c.priority)
		if err != nil {
			fmt.Fprintf(errOut, "error: invalid priority: %s\n", c.priority)
			return exitcode.UserError
		}
		d.Priority = p
	}
	if c.set["deadline"] {
		dl, err := parseDeadline(c.deadline, time.Time{})
		if err != nil || c.deadline == "" {
			fmt.Fprintf(errOut, "error: invalid deadline: %s (want YYYY-MM-DD)\n", c.deadline)
			return exitcode.UserError
		}
		d.Deadline = dl
	}

	if _, err := env.Backend.EditTask(ctx, tok, t.WithDraft(d)); err != nil {
		return fail(cfg, errOut, err)
	}
	return okLine(cfg, out)
}
