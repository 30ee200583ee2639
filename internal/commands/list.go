package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todomirror/internal/exitcode"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `todomirror` (no args) and `todomirror list`.
type ListCmd struct {
	limit int
}

// SetLimit sets the page size override (for testing).
func (c *ListCmd) SetLimit(limit int) {
	c.limit = limit
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "todomirror list [--limit <n>]" }
func (c *ListCmd) NeedsRemote() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.limit, "limit", 0, "")
	fs.IntVar(&c.limit, "n", 0, "")
}

func (c *ListCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if c.limit < 0 {
		fmt.Fprintf(errOut, "error: invalid limit: %d\n", c.limit)
		return exitcode.UserError
	}
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	st, code := loadStore(ctx, env, c.limit, errOut)
	if code != exitcode.Success {
		return code
	}

	printTasks(out, st.Tasks(), env.Config.Quiet)
	return exitcode.Success
}
