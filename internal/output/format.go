// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"todomirror/internal/store"
)

// EmptyMessage is shown in place of an empty task list.
const EmptyMessage = "no tasks yet"

// FormatTask formats a task line.
// Format: "{N:>4}  [x] {TITLE}\n" (4-wide right-aligned number, two spaces, checkbox, title)
func FormatTask(w io.Writer, num int, task store.Task) {
	fmt.Fprintf(w, "%4d  %s %s\n", num, Checkbox(task.Completed), NormalizeTitle(task.Text))
}

// FormatTasks formats every task, numbered from 1.
func FormatTasks(w io.Writer, tasks []store.Task) {
	for i, task := range tasks {
		FormatTask(w, i+1, task)
	}
}

// Checkbox returns "[x]" for completed tasks and "[ ]" otherwise.
func Checkbox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

// NormalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func NormalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
