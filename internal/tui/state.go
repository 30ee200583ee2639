package tui

import "todomirror/internal/store"

// Page is the view currently shown.
type Page int

const (
	PageHome Page = iota
	PageTodos
)

func (p Page) String() string {
	if p == PageTodos {
		return "Todo List"
	}
	return "Homepage"
}

// State is the UI state that is not owned by the store.
// It is only changed by Model.Update.
type State struct {
	Page   Page
	Cursor int
	Width  int
	Height int
}

// Snapshot is a copy of the store state taken after each change.
type Snapshot struct {
	Tasks   []store.Task
	Loading bool
	Err     string
}

func takeSnapshot(st *store.Store) Snapshot {
	return Snapshot{Tasks: st.Tasks(), Loading: st.Loading(), Err: st.Err()}
}

// switchPage moves between the two pages.
func (s State) switchPage() State {
	if s.Page == PageHome {
		s.Page = PageTodos
	} else {
		s.Page = PageHome
	}
	return s
}

// moveCursor moves the cursor by delta within [0, n).
func (s State) moveCursor(delta, n int) State {
	s.Cursor += delta
	return s.clamp(n)
}

// clamp keeps the cursor on an existing task after the list changed.
func (s State) clamp(n int) State {
	if s.Cursor >= n {
		s.Cursor = n - 1
	}
	if s.Cursor < 0 {
		s.Cursor = 0
	}
	return s
}
