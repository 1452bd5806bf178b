package commands

import (
	"context"
	"flag"
	"io"

	"taskdash/internal/aggregate"
	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/output"
	"taskdash/internal/session"
	"taskdash/internal/store"
)

func init() {
	Register(&ListCmd{})
	Register(&SummaryCmd{})
}

// ListCmd implements the list command, also run by `taskdash` with no args.
type ListCmd struct{}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks grouped by deadline" }
func (c *ListCmd) Usage() string     { return "taskdash list [common flags]" }
func (c *ListCmd) NeedsAuth() bool   { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	st := store.New()
	tok := env.Session.Get()
	if err := st.Refresh(ctx, env.Backend, tok); err != nil {
		return fail(cfg, errOut, err)
	}

	p := output.NewPrinter(out)
	if !cfg.Quiet {
		if claims, err := session.ParseClaims(tok); err == nil {
			p.Greeting(claims.Name)
		}
	}
	p.Dashboard(aggregate.GroupByDeadline(st.Snapshot()))
	return exitcode.Success
}

// SummaryCmd prints completion percentages.
type SummaryCmd struct{}

func (c *SummaryCmd) Name() string      { return "summary" }
func (c *SummaryCmd) Aliases() []string { return []string{"stats"} }
func (c *SummaryCmd) Synopsis() string  { return "Show completed and pending percentages" }
func (c *SummaryCmd) Usage() string     { return "taskdash summary [common flags]" }
func (c *SummaryCmd) NeedsAuth() bool   { return true }

func (c *SummaryCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *SummaryCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	st := store.New()
	if err := st.Refresh(ctx, env.Backend, env.Session.Get()); err != nil {
		return fail(cfg, errOut, err)
	}
	output.NewPrinter(out).Summary(aggregate.Summarize(st.Snapshot()))
	return exitcode.Success
}
