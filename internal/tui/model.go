package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"todomirror/internal/store"
)

const defaultWidth = 80

// Notifier forwards store change notifications to the program.
// Pending notifications are coalesced.
type Notifier struct {
	ch chan struct{}
}

// NewNotifier creates a Notifier. Pass its Notify method as the store's OnChange.
func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan struct{}, 1)}
}

// Notify records that the store changed. It never blocks.
func (n *Notifier) Notify() {
	select {
	case n.ch <- struct{}{}:
	default:
	}
}

func (n *Notifier) wait() tea.Cmd {
	if n == nil {
		return nil
	}
	return func() tea.Msg {
		<-n.ch
		return storeChangedMsg{}
	}
}

type storeChangedMsg struct{}

type opDoneMsg struct {
	action string
	text   string // submitted input, for "add"
	err    error
}

// Model is the bubbletea model for the home and todo pages.
type Model struct {
	ctx     context.Context
	store   *store.Store
	changes *Notifier
	log     zerolog.Logger

	state State
	snap  Snapshot
	input textinput.Model
	home  string
}

// New creates the model. changes may be nil, in which case the view refreshes
// only when an operation started from the UI completes.
func New(ctx context.Context, st *store.Store, changes *Notifier, log zerolog.Logger) Model {
	ti := textinput.New()
	ti.Placeholder = "What needs doing?"
	ti.Prompt = "> "
	ti.CharLimit = 200
	ti.Width = defaultWidth - 8

	m := Model{
		ctx:     ctx,
		store:   st,
		changes: changes,
		log:     log.With().Str("cmp", "tui").Logger(),
		input:   ti,
	}
	m.home = renderHome(defaultWidth, m.log)
	m.snap = takeSnapshot(st)
	return m
}

// State returns the current UI state.
func (m Model) State() State { return m.state }

// Init loads the list and starts listening for store changes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.changes.wait())
}

// Update handles a message and returns the next model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.state.Width, m.state.Height = msg.Width, msg.Height
		m.input.Width = max(msg.Width-8, 10)
		m.home = renderHome(msg.Width, m.log)
		return m, nil

	case storeChangedMsg:
		m.sync()
		return m, m.changes.wait()

	case opDoneMsg:
		m.sync()
		if msg.err != nil {
			m.log.Debug().Err(msg.err).Str("action", msg.action).Msg("operation failed")
			return m, nil
		}
		// Keep anything typed while the add was in flight.
		if msg.action == "add" && m.input.Value() == msg.text {
			m.input.Reset()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "shift+tab":
		m.state = m.state.switchPage()
		if m.state.Page == PageTodos {
			return m, m.input.Focus()
		}
		m.input.Blur()
		return m, nil
	}

	if m.state.Page == PageHome {
		if msg.String() == "q" {
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "enter":
		return m, m.addCmd(m.input.Value())
	case "ctrl+r":
		return m, m.loadCmd()
	case "up":
		m.state = m.state.moveCursor(-1, len(m.snap.Tasks))
		return m, nil
	case "down":
		m.state = m.state.moveCursor(1, len(m.snap.Tasks))
		return m, nil
	case "ctrl+t":
		if task, ok := m.selected(); ok {
			return m, m.toggleCmd(task.ID)
		}
		return m, nil
	case "ctrl+d":
		if task, ok := m.selected(); ok {
			return m, m.removeCmd(task.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the current page.
func (m Model) View() string {
	return render(m.state, m.snap, m.input.View(), m.home)
}

func (m *Model) sync() {
	m.snap = takeSnapshot(m.store)
	m.state = m.state.clamp(len(m.snap.Tasks))
}

func (m Model) selected() (store.Task, bool) {
	if m.state.Cursor < 0 || m.state.Cursor >= len(m.snap.Tasks) {
		return store.Task{}, false
	}
	return m.snap.Tasks[m.state.Cursor], true
}

func (m Model) loadCmd() tea.Cmd {
	return m.run("load", m.store.Load)
}

func (m Model) addCmd(text string) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{action: "add", text: text, err: m.store.Add(ctx, text)}
	}
}

func (m Model) toggleCmd(id string) tea.Cmd {
	return m.run("toggle", func(ctx context.Context) error { return m.store.Toggle(ctx, id) })
}

func (m Model) removeCmd(id string) tea.Cmd {
	return m.run("remove", func(ctx context.Context) error { return m.store.Remove(ctx, id) })
}

func (m Model) run(action string, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{action: action, err: fn(ctx)}
	}
}
