// Package store holds the in-memory task list and reconciles it with a remote
// list resource under a configurable write policy.
//
// Remote calls are made without holding the store lock, so operations may
// overlap. Completions are applied in completion order, except that a load
// response older than the one already applied is discarded, and likewise for
// toggle echoes of the same task.
package store

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"todomirror/internal/service"
)

// DefaultPageSize is the number of todos fetched by Load.
const DefaultPageSize = 10

// Task is one record of the local list.
type Task struct {
	ID        string
	Text      string
	Completed bool
}

// Options configures a Store.
type Options struct {
	// Policy selects confirm-then-apply or optimistic writes.
	Policy WritePolicy

	// PageSize caps the number of todos Load fetches. Zero means DefaultPageSize.
	PageSize int

	// Logger receives operation logs. Nil disables logging.
	Logger *zerolog.Logger

	// OnChange is called after every state change, outside the store lock.
	OnChange func()

	// Now is the clock used for local ids. Nil means time.Now.
	Now func() time.Time
}

// Store is the task list store.
type Store struct {
	remote   service.Remote
	policy   WritePolicy
	pageSize int
	log      zerolog.Logger
	onChange func()
	now      func() time.Time

	mu            sync.Mutex
	tasks         []Task
	errMsg        string
	loading       int
	loadIssued    uint64
	loadApplied   uint64
	toggleIssued  map[string]uint64
	toggleApplied map[string]uint64
	lastLocal     int64

	bg sync.WaitGroup
}

// New creates a store backed by remote.
func New(remote service.Remote, opts Options) *Store {
	s := &Store{
		remote:        remote,
		policy:        opts.Policy,
		pageSize:      opts.PageSize,
		log:           zerolog.Nop(),
		onChange:      opts.OnChange,
		now:           opts.Now,
		toggleIssued:  make(map[string]uint64),
		toggleApplied: make(map[string]uint64),
	}
	if s.pageSize <= 0 {
		s.pageSize = DefaultPageSize
	}
	if opts.Logger != nil {
		s.log = opts.Logger.With().Str("cmp", "store").Str("policy", opts.Policy.String()).Logger()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Policy returns the write policy the store was built with.
func (s *Store) Policy() WritePolicy { return s.policy }

// Tasks returns a copy of the current list in display order.
func (s *Store) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tasks)
}

// Len returns the number of tasks in the list.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Err returns the message of the most recent failure, or "" if none.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Loading reports whether a Load is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading > 0
}

// Wait blocks until all background remote calls have finished.
func (s *Store) Wait() {
	s.bg.Wait()
}

// Load replaces the list with the first page of the remote resource. A
// response overtaken by a newer Load is discarded and Load returns nil.
func (s *Store) Load(ctx context.Context) error {
	log := s.opLogger("load")

	s.mu.Lock()
	s.loadIssued++
	seq := s.loadIssued
	s.loading++
	s.errMsg = ""
	s.mu.Unlock()
	s.changed()

	todos, err := s.remote.ListTodos(ctx, s.pageSize)

	s.mu.Lock()
	s.loading--
	stale := seq < s.loadApplied
	switch {
	case err != nil && !stale:
		s.errMsg = MsgLoadFailed
	case err == nil && !stale:
		s.loadApplied = seq
		s.tasks = s.fromTodos(todos)
	}
	s.mu.Unlock()
	s.changed()

	if stale {
		log.Debug().Err(err).Uint64("seq", seq).Msg("discarded stale load response")
		return nil
	}
	if err != nil {
		log.Warn().Err(err).Str("kind", service.Classify(err)).Msg("load failed")
		return &FetchError{Err: err}
	}
	log.Debug().Int("count", len(todos)).Msg("loaded")
	return nil
}

// fromTodos maps remote todos to tasks, capping at the page size and keeping
// the first record for any repeated id.
func (s *Store) fromTodos(todos []service.Todo) []Task {
	tasks := make([]Task, 0, min(len(todos), s.pageSize))
	seen := make(map[string]struct{}, len(todos))
	for _, t := range todos {
		if len(tasks) == s.pageSize {
			break
		}
		if _, dup := seen[t.ID]; dup {
			continue
		}
		seen[t.ID] = struct{}{}
		tasks = append(tasks, Task{ID: t.ID, Text: t.Title, Completed: t.Completed})
	}
	return tasks
}

// Add appends a task with the given text. Blank text is a no-op.
func (s *Store) Add(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	log := s.opLogger("add")

	if s.policy == Optimistic {
		s.mu.Lock()
		task := Task{ID: s.nextLocalIDLocked(), Text: text}
		s.tasks = append(s.tasks, task)
		s.mu.Unlock()
		s.changed()

		s.background(ctx, log, MsgAddFailed, func(ctx context.Context) error {
			_, err := s.remote.CreateTodo(ctx, text, false)
			return err
		})
		return nil
	}

	todo, err := s.remote.CreateTodo(ctx, text, false)
	if err != nil {
		s.fail(MsgAddFailed)
		log.Warn().Err(err).Str("kind", service.Classify(err)).Msg("add failed")
		return &MutationError{Op: OpAdd, Err: err}
	}

	task := Task{ID: todo.ID, Text: todo.Title, Completed: todo.Completed}
	if task.Text == "" {
		task.Text = text
	}

	s.mu.Lock()
	if task.ID == "" || s.indexLocked(task.ID) >= 0 {
		serverID := task.ID
		task.ID = s.nextLocalIDLocked()
		log.Warn().Str("server_id", serverID).Str("local_id", task.ID).Msg("server id unusable, keeping local id")
	}
	s.tasks = append(s.tasks, task)
	s.mu.Unlock()
	s.changed()
	return nil
}

// Toggle flips the completed flag of the task with the given id.
func (s *Store) Toggle(ctx context.Context, id string) error {
	log := s.opLogger("toggle").With().Str("id", id).Logger()

	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	cur := s.tasks[i]

	if s.policy == Optimistic || IsLocalID(id) {
		s.tasks[i].Completed = !cur.Completed
		s.mu.Unlock()
		s.changed()

		if IsLocalID(id) {
			log.Debug().Msg("local-only task, skipping remote update")
			return nil
		}
		s.background(ctx, log, MsgToggleFailed, func(ctx context.Context) error {
			_, err := s.remote.UpdateTodo(ctx, id, cur.Text, !cur.Completed)
			return err
		})
		return nil
	}

	s.toggleIssued[id]++
	seq := s.toggleIssued[id]
	s.mu.Unlock()

	todo, err := s.remote.UpdateTodo(ctx, id, cur.Text, !cur.Completed)
	if err != nil {
		s.fail(MsgToggleFailed)
		log.Warn().Err(err).Str("kind", service.Classify(err)).Msg("toggle failed")
		return &MutationError{Op: OpToggle, Err: err}
	}

	s.mu.Lock()
	if seq < s.toggleApplied[id] {
		s.mu.Unlock()
		log.Debug().Uint64("seq", seq).Msg("discarded stale toggle response")
		return nil
	}
	s.toggleApplied[id] = seq
	// The task may have been removed or replaced by a load while the call was in flight.
	if i = s.indexLocked(id); i >= 0 {
		updated := Task{ID: id, Text: todo.Title, Completed: todo.Completed}
		if updated.Text == "" {
			updated.Text = cur.Text
		}
		s.tasks[i] = updated
	}
	s.mu.Unlock()
	s.changed()
	return nil
}

// Remove deletes the task with the given id.
func (s *Store) Remove(ctx context.Context, id string) error {
	log := s.opLogger("remove").With().Str("id", id).Logger()

	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}

	if s.policy == Optimistic || IsLocalID(id) {
		s.tasks = slices.Delete(s.tasks, i, i+1)
		s.mu.Unlock()
		s.changed()

		if IsLocalID(id) {
			log.Debug().Msg("local-only task, skipping remote delete")
			return nil
		}
		s.background(ctx, log, MsgRemoveFailed, func(ctx context.Context) error {
			return s.remote.DeleteTodo(ctx, id)
		})
		return nil
	}
	s.mu.Unlock()

	if err := s.remote.DeleteTodo(ctx, id); err != nil {
		s.fail(MsgRemoveFailed)
		log.Warn().Err(err).Str("kind", service.Classify(err)).Msg("remove failed")
		return &MutationError{Op: OpRemove, Err: err}
	}

	s.mu.Lock()
	if i = s.indexLocked(id); i >= 0 {
		s.tasks = slices.Delete(s.tasks, i, i+1)
	}
	s.mu.Unlock()
	s.changed()
	return nil
}

// background runs call detached from ctx's cancellation and records msg if it fails.
func (s *Store) background(ctx context.Context, log zerolog.Logger, msg string, call func(context.Context) error) {
	ctx = context.WithoutCancel(ctx)
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		if err := call(ctx); err != nil {
			s.fail(msg)
			log.Warn().Err(err).Str("kind", service.Classify(err)).Msg("remote write failed, keeping local change")
			return
		}
		log.Debug().Msg("remote write confirmed")
	}()
}

func (s *Store) fail(msg string) {
	s.mu.Lock()
	s.errMsg = msg
	s.mu.Unlock()
	s.changed()
}

func (s *Store) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
}

func (s *Store) opLogger(action string) zerolog.Logger {
	return s.log.With().Str("action", action).Str("op", uuid.NewString()).Logger()
}
