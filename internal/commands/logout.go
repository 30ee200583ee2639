package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"

	"todomirror/internal/exitcode"
)

func init() {
	Register(&LogoutCmd{})
}

// LogoutCmd forgets the stored googletasks token. With --all the OAuth
// client credentials go too.
type LogoutCmd struct {
	all bool
}

func (c *LogoutCmd) Name() string      { return "logout" }
func (c *LogoutCmd) Aliases() []string { return nil }
func (c *LogoutCmd) Synopsis() string  { return "Remove stored Google credentials" }
func (c *LogoutCmd) Usage() string     { return "todomirror logout [common flags] [--all]" }
func (c *LogoutCmd) NeedsRemote() bool { return false }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.all, "all", false, "")
}

func (c *LogoutCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	cfg := env.Config
	log := env.Logger.With().Str("cmp", "auth").Logger()

	removed := false
	if cfg.HasToken() {
		if err := cfg.RemoveToken(); err != nil {
			fmt.Fprintf(errOut, "error: failed to remove token: %v\n", err)
			return exitcode.AuthError
		}
		log.Info().Str("path", cfg.TokenPath()).Msg("token removed")
		removed = true
	}

	if c.all {
		err := os.Remove(cfg.OAuthClientPath())
		switch {
		case err == nil:
			log.Info().Str("path", cfg.OAuthClientPath()).Msg("oauth client removed")
			removed = true
		case !errors.Is(err, fs.ErrNotExist):
			fmt.Fprintf(errOut, "error: failed to remove oauth client: %v\n", err)
			return exitcode.AuthError
		}
	}

	if cfg.Quiet {
		return exitcode.Success
	}
	if removed {
		fmt.Fprintln(out, "ok")
	} else {
		fmt.Fprintln(out, "not logged in")
	}
	return exitcode.Success
}
