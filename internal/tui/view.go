package tui

import (
	_ "embed"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"todomirror/internal/output"
)

//go:embed home.md
var homeMarkdown string

const (
	loadingText = "loading..."
	todosHelp   = "enter add • ctrl+r reload • ↑/↓ move • ctrl+t toggle • ctrl+d delete • tab home • esc quit"
	homeHelp    = "tab todo list • esc quit"
)

// renderHome renders the homepage markdown, falling back to the raw text.
func renderHome(width int, log zerolog.Logger) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(max(width-4, 20)),
	)
	if err != nil {
		log.Debug().Err(err).Msg("failed to create markdown renderer, showing raw content")
		return homeMarkdown
	}
	rendered, err := renderer.Render(homeMarkdown)
	if err != nil {
		log.Debug().Err(err).Msg("failed to render markdown, showing raw content")
		return homeMarkdown
	}
	return strings.TrimSpace(rendered)
}

func render(s State, snap Snapshot, input, home string) string {
	var body string
	if s.Page == PageHome {
		body = lipgloss.JoinVertical(lipgloss.Left, home, "", mutedStyle.Render(homeHelp))
	} else {
		body = renderTodos(s, snap, input)
	}
	return lipgloss.JoinVertical(lipgloss.Left, renderHeader(s.Page), bodyStyle.Render(body))
}

func renderHeader(active Page) string {
	tabs := make([]string, 0, 2)
	for _, p := range []Page{PageHome, PageTodos} {
		style := tabStyle
		if p == active {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(p.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, headerStyle.Render("todomirror"), strings.Join(tabs, " "))
}

func renderTodos(s State, snap Snapshot, input string) string {
	lines := []string{titleStyle.Render(PageTodos.String()), input, ""}

	if snap.Loading {
		lines = append(lines, mutedStyle.Render(loadingText))
	}
	if snap.Err != "" {
		lines = append(lines, errorStyle.Render(snap.Err))
	}

	if len(snap.Tasks) == 0 {
		lines = append(lines, mutedStyle.Render(output.EmptyMessage))
	}
	for i, task := range snap.Tasks {
		lines = append(lines, renderTask(i == s.Cursor, task.Completed, task.Text))
	}

	lines = append(lines, "", mutedStyle.Render(todosHelp))
	return strings.Join(lines, "\n")
}

func renderTask(selected, completed bool, text string) string {
	cursor := "  "
	if selected {
		cursor = cursorStyle.Render("> ")
	}
	text = output.NormalizeTitle(text)
	if completed {
		text = doneStyle.Render(text)
	}
	return cursor + output.Checkbox(completed) + " " + text
}
