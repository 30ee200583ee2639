package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"runtime/debug"

	"todomirror/internal/exitcode"
)

// Version is overridden at build time with -ldflags "-X".
var Version = "0.1.0"

func init() {
	Register(&VersionCmd{})
}

// VersionCmd prints the version and, with --verbose, the build and
// effective backend settings.
type VersionCmd struct {
	verbose bool
}

func (c *VersionCmd) Name() string      { return "version" }
func (c *VersionCmd) Aliases() []string { return nil }
func (c *VersionCmd) Synopsis() string  { return "Print version" }
func (c *VersionCmd) Usage() string     { return "todomirror version [--verbose]" }
func (c *VersionCmd) NeedsRemote() bool { return false }

func (c *VersionCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.verbose, "verbose", false, "")
}

func (c *VersionCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	fmt.Fprintf(out, "todomirror %s\n", Version)
	if !c.verbose {
		return exitcode.Success
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		fmt.Fprintf(out, "go:       %s\n", info.GoVersion)
	}
	if cfg := env.Config; cfg != nil {
		fmt.Fprintf(out, "backend:  %s\n", cfg.Backend)
		fmt.Fprintf(out, "policy:   %s\n", cfg.Policy)
	}
	return exitcode.Success
}
