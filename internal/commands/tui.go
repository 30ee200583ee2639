package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"todomirror/internal/exitcode"
	"todomirror/internal/tui"
)

func init() {
	Register(&TuiCmd{})
}

// TuiCmd starts the interactive interface.
type TuiCmd struct{}

func (c *TuiCmd) Name() string      { return "tui" }
func (c *TuiCmd) Aliases() []string { return []string{"ui"} }
func (c *TuiCmd) Synopsis() string  { return "Interactive home and todo pages" }
func (c *TuiCmd) Usage() string     { return "todomirror tui [common flags]" }
func (c *TuiCmd) NeedsRemote() bool { return true }

func (c *TuiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *TuiCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	changes := tui.NewNotifier()
	st, err := env.Store(0, changes.Notify)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if err := tui.Run(ctx, st, changes, env.Logger); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		if errors.Is(err, tui.ErrNoTTY) {
			return exitcode.UserError
		}
		return exitcode.BackendError
	}
	return exitcode.Success
}
