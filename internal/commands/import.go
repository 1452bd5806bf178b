package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"taskdash/internal/aggregate"
	"taskdash/internal/backend/googletasks"
	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/task"
)

func init() {
	Register(&ImportCmd{})
}

// TaskSource is the read side of Google Tasks that import needs.
type TaskSource interface {
	DefaultList(ctx context.Context) (googletasks.List, error)
	ResolveList(ctx context.Context, name string) (googletasks.List, error)
	ListOpenTasks(ctx context.Context, listID string) ([]googletasks.OpenTask, error)
}

// ImportCmd copies open Google Tasks into the backend.
type ImportCmd struct {
	list     string
	priority string

	open func(ctx context.Context, cfg *config.Config) (TaskSource, error)
	now  func() time.Time
}

// SetSource replaces the Google client (for testing).
func (c *ImportCmd) SetSource(open func(ctx context.Context, cfg *config.Config) (TaskSource, error)) {
	c.open = open
}

// SetClock fixes "today" (for testing).
func (c *ImportCmd) SetClock(now func() time.Time) {
	c.now = now
}

func (c *ImportCmd) Name() string      { return "import" }
func (c *ImportCmd) Aliases() []string { return nil }
func (c *ImportCmd) Synopsis() string  { return "Import open tasks from Google Tasks" }
func (c *ImportCmd) Usage() string {
	return "taskdash import [common flags] [--list <list-name>] [--priority high|medium|low]"
}
func (c *ImportCmd) NeedsAuth() bool { return true }

func (c *ImportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.list, "list", "", "")
	fs.StringVar(&c.priority, "priority", string(task.PriorityMedium), "")
}

func (c *ImportCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	p, err := task.ParsePriority(c.priority)
	if err != nil {
		fmt.Fprintf(errOut, "error: invalid priority: %s\n", c.priority)
		return exitcode.UserError
	}

	src, err := c.source(ctx, cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	var list googletasks.List
	if strings.TrimSpace(c.list) == "" {
		list, err = src.DefaultList(ctx)
	} else {
		list, err = src.ResolveList(ctx, c.list)
	}
	if err != nil {
		return fail(cfg, errOut, err)
	}

	open, err := src.ListOpenTasks(ctx, list.ID)
	if err != nil {
		return fail(cfg, errOut, err)
	}

	today := aggregate.DateKey(c.clock())
	tok := env.Session.Get()
	n := 0
	for _, ot := range open {
		d, ok := draftFromGoogle(ot, p, today)
		if !ok {
			logger(cfg).Debug("skipping untitled task", "id", ot.ID)
			continue
		}
		if _, err := env.Backend.AddTask(ctx, tok, d); err != nil {
			logger(cfg).Debug("import stopped", "imported", n, "remaining", len(open)-n)
			return fail(cfg, errOut, err)
		}
		n++
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "imported %d\n", n)
	}
	return exitcode.Success
}

func (c *ImportCmd) source(ctx context.Context, cfg *config.Config) (TaskSource, error) {
	if c.open != nil {
		return c.open(ctx, cfg)
	}
	cl, err := googletasks.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return cl, nil
}

func (c *ImportCmd) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

// draftFromGoogle maps title to heading and notes to content, falling back to
// the title. Tasks without a due date are due today.
func draftFromGoogle(ot googletasks.OpenTask, p task.Priority, today time.Time) (task.Draft, bool) {
	title := strings.TrimSpace(ot.Title)
	if title == "" {
		return task.Draft{}, false
	}
	content := strings.TrimSpace(ot.Notes)
	if content == "" {
		content = title
	}
	deadline := today
	if !ot.Due.IsZero() {
		deadline = aggregate.DateKey(ot.Due)
	}
	return task.Draft{Heading: title, Content: content, Priority: p, Deadline: deadline}, true
}
