package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todomirror/internal/exitcode"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "todomirror rm <n>" }
func (c *RmCmd) NeedsRemote() bool { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	num, err := ParseTaskNumber(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	st, code := loadStore(ctx, env, 0, errOut)
	if code != exitcode.Success {
		return code
	}

	task, err := taskAt(st, num)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if err := st.Remove(ctx, task.ID); err != nil {
		return reportStoreError(errOut, st, err)
	}
	return finish(env, st, out, errOut)
}
