// Package main is the entry point for the todomirror CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"todomirror/internal/backend/googletasks"
	"todomirror/internal/backend/placeholder"
	"todomirror/internal/cli"
	"todomirror/internal/commands"
	"todomirror/internal/config"
	"todomirror/internal/service"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, newRemote)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// newRemote creates the backend selected by cfg.Backend.
func newRemote(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (service.Remote, error) {
	switch cfg.Backend {
	case config.BackendPlaceholder:
		c, err := placeholder.New(cfg.BaseURL,
			placeholder.WithTimeout(cfg.APITimeout()),
			placeholder.WithLogger(logger),
		)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.BackendGoogleTasks:
		c, err := googletasks.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", cfg.Backend)
	}
}
