package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/task"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	content  string
	priority string
	deadline string

	now func() time.Time
}

// SetClock fixes "today" (for testing).
func (c *AddCmd) SetClock(now func() time.Time) {
	c.now = now
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "taskdash add --content <text> [--priority high|medium|low] [--deadline YYYY-MM-DD] <heading...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.content, "content", "", "")
	fs.StringVar(&c.content, "c", "", "")
	fs.StringVar(&c.priority, "priority", string(task.PriorityMedium), "")
	fs.StringVar(&c.priority, "p", string(task.PriorityMedium), "")
	fs.StringVar(&c.deadline, "deadline", "", "")
	fs.StringVar(&c.deadline, "d", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	heading := strings.Join(args, " ")
	if strings.TrimSpace(heading) == "" {
		fmt.Fprintln(errOut, "error: heading required")
		return exitcode.UserError
	}

	priority := c.priority
	if priority == "" {
		priority = string(task.PriorityMedium)
	}
	p, err := task.ParsePriority(priority)
	if err != nil {
		fmt.Fprintf(errOut, "error: invalid priority: %s\n", c.priority)
		return exitcode.UserError
	}

	deadline, err := parseDeadline(c.deadline, c.clock())
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	d := task.Draft{
		Heading:  heading,
		Content:  c.content,
		Priority: p,
		Deadline: deadline,
	}
	if _, err := env.Backend.AddTask(ctx, env.Session.Get(), d); err != nil {
		return fail(cfg, errOut, err)
	}
	return okLine(cfg, out)
}

func (c *AddCmd) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

// parseDeadline reads YYYY-MM-DD as UTC midnight; empty means today.
func parseDeadline(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		y, m, d := now.UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := task.ParseTime(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid deadline: %s (want YYYY-MM-DD)", s)
	}
	return t, nil
}
