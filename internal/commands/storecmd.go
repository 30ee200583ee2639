package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"todomirror/internal/exitcode"
	"todomirror/internal/output"
	"todomirror/internal/store"
)

// loadStore builds a store and performs the initial load.
// On failure it reports to errOut and returns a non-zero exit code.
func loadStore(ctx context.Context, env *Env, pageSize int, errOut io.Writer) (*store.Store, int) {
	st, err := env.Store(pageSize, nil)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return nil, exitcode.UserError
	}
	if err := st.Load(ctx); err != nil {
		return nil, reportStoreError(errOut, st, err)
	}
	return st, exitcode.Success
}

// reportStoreError prints the store's user-facing message with the underlying cause.
func reportStoreError(errOut io.Writer, st *store.Store, err error) int {
	msg := st.Err()
	if msg == "" {
		msg = err.Error()
	}

	cause := err
	var fetchErr *store.FetchError
	var mutErr *store.MutationError
	switch {
	case errors.As(err, &fetchErr):
		cause = fetchErr.Err
	case errors.As(err, &mutErr):
		cause = mutErr.Err
	}

	if cause != nil && cause.Error() != msg {
		fmt.Fprintf(errOut, "error: %s: %v\n", msg, cause)
	} else {
		fmt.Fprintf(errOut, "error: %s\n", msg)
	}
	return exitcode.BackendError
}

// finish waits for background writes, prints the list and reports any
// failure recorded by an optimistic write.
func finish(env *Env, st *store.Store, out, errOut io.Writer) int {
	st.Wait()

	if !env.Config.Quiet {
		printTasks(out, st.Tasks(), false)
	}
	if msg := st.Err(); msg != "" {
		fmt.Fprintf(errOut, "error: %s\n", msg)
		return exitcode.BackendError
	}
	return exitcode.Success
}

// printTasks prints the numbered list; the empty message is suppressed when quiet.
func printTasks(out io.Writer, tasks []store.Task, quiet bool) {
	if len(tasks) == 0 {
		if !quiet {
			fmt.Fprintln(out, output.EmptyMessage)
		}
		return
	}
	output.FormatTasks(out, tasks)
}

// taskAt resolves a 1-based task number against the loaded list.
func taskAt(st *store.Store, num int) (store.Task, error) {
	tasks := st.Tasks()
	if num < 1 || num > len(tasks) {
		return store.Task{}, fmt.Errorf("task number out of range: %d", num)
	}
	return tasks[num-1], nil
}
