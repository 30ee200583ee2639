package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todomirror/internal/exitcode"
)

func init() {
	Register(&ConfigCmd{})
}

// ConfigCmd prints the effective configuration.
type ConfigCmd struct{}

func (c *ConfigCmd) Name() string      { return "config" }
func (c *ConfigCmd) Aliases() []string { return nil }
func (c *ConfigCmd) Synopsis() string  { return "Print the effective configuration" }
func (c *ConfigCmd) Usage() string     { return "todomirror config [common flags]" }
func (c *ConfigCmd) NeedsRemote() bool { return false }

func (c *ConfigCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ConfigCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	data, err := env.Config.YAML()
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}
	if !env.Config.Quiet && env.Config.File != "" {
		fmt.Fprintf(out, "# %s\n", env.Config.File)
	}
	_, _ = out.Write(data)
	return exitcode.Success
}
