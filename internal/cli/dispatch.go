package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"todomirror/internal/commands"
	"todomirror/internal/config"
	"todomirror/internal/exitcode"
	"todomirror/internal/logutils"
	"todomirror/internal/service"
)

// RemoteFactory creates the todo backend from config.
// Used to inject the backend during dispatch.
type RemoteFactory func(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (service.Remote, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  RemoteFactory
}

// NewDispatcher creates a new dispatcher with the given registry and backend factory.
func NewDispatcher(registry *commands.Registry, factory RemoteFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configDir string
	policy    string
	backend   string
	quiet     bool
	debug     bool
}

func (f *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configDir, "config", "", "")
	fs.StringVar(&f.policy, "policy", "", "")
	fs.StringVar(&f.backend, "backend", "", "")
	fs.BoolVar(&f.quiet, "quiet", false, "")
	fs.BoolVar(&f.debug, "debug", false, "")
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// Flags require a command
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	var common commonFlags
	common.register(fs)
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	// A leading "-" left over means it was not a defined flag
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.Load(common.configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.AuthError
	}
	cfg.Quiet = common.quiet
	cfg.Debug = common.debug
	if common.policy != "" {
		cfg.Policy = common.policy
	}
	if common.backend != "" {
		cfg.Backend = common.backend
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(errOut, "error: invalid config: %s\n", err)
		return exitcode.AuthError
	}

	logger, closeLog, err := newLogger(cfg, errOut)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.AuthError
	}
	defer closeLog()

	env := &commands.Env{Config: cfg, Logger: logger}
	if cmd.NeedsRemote() {
		if code := d.openRemote(ctx, env, errOut); code != exitcode.Success {
			return code
		}
	}

	logger.Debug().Str("cmd", cmd.Name()).Str("backend", cfg.Backend).Str("policy", cfg.Policy).Msg("dispatch")
	return cmd.Run(ctx, env, positionalArgs, out, errOut)
}

// openRemote checks backend prerequisites and creates the remote.
func (d *Dispatcher) openRemote(ctx context.Context, env *commands.Env, errOut io.Writer) int {
	cfg := env.Config
	if cfg.Backend == config.BackendGoogleTasks {
		if !cfg.HasOAuthClient() {
			fmt.Fprintf(errOut, "error: oauth_client.json not found in %s\n", cfg.Dir)
			return exitcode.AuthError
		}
		if !cfg.HasToken() {
			fmt.Fprintln(errOut, "error: not logged in (run: todomirror login)")
			return exitcode.AuthError
		}
	}

	if d.factory == nil {
		fmt.Fprintln(errOut, "error: no backend configured")
		return exitcode.AuthError
	}
	remote, err := d.factory(ctx, cfg, env.Logger)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.AuthError
	}
	env.Remote = remote
	return exitcode.Success
}

// newLogger sends debug logs to errOut with --debug, otherwise logs to the
// configured file, otherwise nowhere.
func newLogger(cfg *config.Config, errOut io.Writer) (zerolog.Logger, func(), error) {
	if cfg.Debug {
		return logutils.New("debug", "", errOut)
	}
	return logutils.New(cfg.LogLevel, cfg.LogFile, nil)
}

// flagError rewrites flag package errors into the CLI's message style.
func flagError(err error) string {
	errStr := err.Error()

	// Missing flag value
	if strings.HasPrefix(errStr, "flag needs an argument:") {
		return errStr
	}

	// Unknown flag
	if name, ok := strings.CutPrefix(errStr, "flag provided but not defined: "); ok {
		return "unknown flag: " + name
	}

	return errStr
}
