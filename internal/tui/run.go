// Package tui provides the interactive terminal interface: a static homepage
// and the todo list page backed by a store.
package tui

import (
	"context"
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"todomirror/internal/store"
)

// ErrNoTTY is returned when stdout is not a terminal.
var ErrNoTTY = errors.New("tui requires a terminal")

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Run starts the program and blocks until the user quits or ctx is cancelled.
// Background writes still in flight are awaited before returning.
func Run(ctx context.Context, st *store.Store, changes *Notifier, log zerolog.Logger) error {
	if !IsTerminal(os.Stdout) {
		return ErrNoTTY
	}

	program := tea.NewProgram(New(ctx, st, changes, log), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	st.Wait()

	if err != nil && ctx.Err() != nil {
		// Interrupted by a signal, not a program failure.
		return nil
	}
	return err
}
