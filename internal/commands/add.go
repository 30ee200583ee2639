package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todomirror/internal/exitcode"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct{}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string     { return "todomirror add <title...>" }
func (c *AddCmd) NeedsRemote() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	st, code := loadStore(ctx, env, 0, errOut)
	if code != exitcode.Success {
		return code
	}

	if err := st.Add(ctx, title); err != nil {
		return reportStoreError(errOut, st, err)
	}
	return finish(env, st, out, errOut)
}
