// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"github.com/rs/zerolog"

	"todomirror/internal/config"
	"todomirror/internal/service"
	"todomirror/internal/store"
)

// Env is what a command runs against.
type Env struct {
	// Config is always provided (config dir, paths, settings).
	Config *config.Config

	// Remote is nil if NeedsRemote() returns false.
	Remote service.Remote

	// Logger is the process logger; a disabled logger when logging is off.
	Logger zerolog.Logger
}

// Store builds a task list store over env.Remote using the configured policy.
// pageSize overrides the configured page size when positive.
func (env *Env) Store(pageSize int, onChange func()) (*store.Store, error) {
	policy, err := store.ParsePolicy(env.Config.Policy)
	if err != nil {
		return nil, err
	}
	if pageSize <= 0 {
		pageSize = env.Config.PageSize
	}
	return store.New(env.Remote, store.Options{
		Policy:   policy,
		PageSize: pageSize,
		Logger:   &env.Logger,
		OnChange: onChange,
	}), nil
}

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsRemote returns true if the command talks to the todo backend.
	// Commands like help, version, config, login, logout return false.
	NeedsRemote() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int
}
