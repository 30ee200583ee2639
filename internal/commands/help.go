package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todomirror/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "todomirror help" }
func (c *HelpCmd) NeedsRemote() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  todomirror                                   List tasks
  todomirror list [common flags] [--limit <n>] List tasks
  todomirror add [common flags] <title...>     Create a task (alias: create)
  todomirror toggle [common flags] <n>         Flip task n open/completed (alias: done)
  todomirror rm [common flags] <n>             Delete task n (alias: delete)
  todomirror tui [common flags]                Interactive home and todo pages
  todomirror config [common flags]             Print the effective configuration
  todomirror login [common flags]              Authenticate the googletasks backend
  todomirror logout [common flags] [--all]     Forget stored credentials
  todomirror help
  todomirror version [--verbose]

Common flags:
  --config <dir>     Override config directory
  --policy <name>    Write policy: confirm or optimistic
  --backend <name>   Backend: placeholder or googletasks
  --quiet            Suppress informational output
  --debug            Print debug logs to stderr
`
