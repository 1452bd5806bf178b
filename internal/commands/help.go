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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskdash help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskdash                                           Show the dashboard
  taskdash list [common flags]                       Show the dashboard
  taskdash summary [common flags]                    Show completion percentages
  taskdash add [common flags] --content <text> [--priority <p>] [--deadline <date>] <heading...>
  taskdash edit [common flags] [--heading <text>] [--content <text>] [--priority <p>] [--deadline <date>] <ref>
  taskdash done [common flags] <ref>
  taskdash undo [common flags] <ref>
  taskdash rm [common flags] <ref>
  taskdash login [common flags] --email <email> [--password <password>]
  taskdash signup [common flags] --name <name> --email <email> [--password <password>]
  taskdash logout [common flags]
  taskdash whoami [common flags]
  taskdash serve [common flags] [--addr <host:port>] [--secure-cookie]
  taskdash link [common flags]
  taskdash unlink [common flags]
  taskdash import [common flags] [--list <list-name>] [--priority <p>]
  taskdash help
  taskdash version

Task refs:
  <n>              n-th To-Do task as listed
  c<n>             n-th completed task as listed
  <id>             task ID

Priorities: high, medium, low. Dates: YYYY-MM-DD.

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
