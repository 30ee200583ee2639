package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todomirror/internal/exitcode"
)

func init() {
	Register(&ToggleCmd{})
}

// ToggleCmd implements the toggle command.
type ToggleCmd struct{}

func (c *ToggleCmd) Name() string      { return "toggle" }
func (c *ToggleCmd) Aliases() []string { return []string{"done"} }
func (c *ToggleCmd) Synopsis() string  { return "Flip a task between open and completed" }
func (c *ToggleCmd) Usage() string     { return "todomirror toggle <n>" }
func (c *ToggleCmd) NeedsRemote() bool { return true }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
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

	if err := st.Toggle(ctx, task.ID); err != nil {
		return reportStoreError(errOut, st, err)
	}
	return finish(env, st, out, errOut)
}
