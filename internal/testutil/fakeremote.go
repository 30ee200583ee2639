// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"todomirror/internal/service"
)

// FirstCreatedID is the id FakeRemote assigns to the first created todo,
// matching the demo API which numbers new todos after its 200 fixtures.
const FirstCreatedID = 201

// FakeRemote is an in-memory implementation of service.Remote for testing.
type FakeRemote struct {
	mu     sync.Mutex
	todos  []service.Todo
	nextID int
	calls  []string
	holds  map[string][]*Hold

	// Error injection for testing
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error

	// FixedCreateID, when set, is returned for every create, like the demo
	// API which always answers 201 and never persists the todo.
	FixedCreateID string
}

// NewFakeRemote creates a FakeRemote seeded with todos.
func NewFakeRemote(todos ...service.Todo) *FakeRemote {
	return &FakeRemote{
		todos:  append([]service.Todo(nil), todos...),
		nextID: FirstCreatedID,
		holds:  make(map[string][]*Hold),
	}
}

// Hold blocks one remote call until released.
type Hold struct {
	started  chan struct{}
	released chan struct{}
	once     sync.Once
}

// Started is closed once the held call has reached the fake.
func (h *Hold) Started() <-chan struct{} { return h.started }

// Release lets the held call proceed.
func (h *Hold) Release() { h.once.Do(func() { close(h.released) }) }

// HoldNext makes the next call to method ("list", "create", "update" or
// "delete") block until the returned Hold is released.
func (f *FakeRemote) HoldNext(method string) *Hold {
	f.mu.Lock()
	defer f.mu.Unlock()
	h := &Hold{started: make(chan struct{}), released: make(chan struct{})}
	f.holds[method] = append(f.holds[method], h)
	return h
}

// SetTodos replaces the remote list.
func (f *FakeRemote) SetTodos(todos ...service.Todo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.todos = append([]service.Todo(nil), todos...)
}

// Todos returns a copy of the remote list.
func (f *FakeRemote) Todos() []service.Todo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]service.Todo(nil), f.todos...)
}

// Calls returns the recorded calls, e.g. "list", "create:Buy milk", "update:3", "delete:3".
func (f *FakeRemote) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// enter records the call and waits on a pending hold for method, if any.
func (f *FakeRemote) enter(ctx context.Context, method, call string) error {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	var h *Hold
	if q := f.holds[method]; len(q) > 0 {
		h, f.holds[method] = q[0], q[1:]
	}
	f.mu.Unlock()

	if h == nil {
		return nil
	}
	close(h.started)
	select {
	case <-h.released:
		return nil
	case <-ctx.Done():
		return service.NetworkError("%v", ctx.Err())
	}
}

// ListTodos implements service.Remote.
func (f *FakeRemote) ListTodos(ctx context.Context, limit int) ([]service.Todo, error) {
	if err := f.enter(ctx, "list", "list"); err != nil {
		return nil, err
	}
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	n := len(f.todos)
	if limit > 0 && limit < n {
		n = limit
	}
	return append([]service.Todo(nil), f.todos[:n]...), nil
}

// CreateTodo implements service.Remote.
func (f *FakeRemote) CreateTodo(ctx context.Context, title string, completed bool) (service.Todo, error) {
	if err := f.enter(ctx, "create", "create:"+title); err != nil {
		return service.Todo{}, err
	}
	if f.CreateErr != nil {
		return service.Todo{}, f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FixedCreateID != "" {
		return service.Todo{ID: f.FixedCreateID, Title: title, Completed: completed}, nil
	}
	todo := service.Todo{ID: strconv.Itoa(f.nextID), Title: title, Completed: completed}
	f.nextID++
	f.todos = append(f.todos, todo)
	return todo, nil
}

// UpdateTodo implements service.Remote.
func (f *FakeRemote) UpdateTodo(ctx context.Context, id, title string, completed bool) (service.Todo, error) {
	if err := f.enter(ctx, "update", "update:"+id); err != nil {
		return service.Todo{}, err
	}
	if f.UpdateErr != nil {
		return service.Todo{}, f.UpdateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	todo := service.Todo{ID: id, Title: title, Completed: completed}
	for i := range f.todos {
		if f.todos[i].ID == id {
			f.todos[i] = todo
		}
	}
	return todo, nil
}

// DeleteTodo implements service.Remote.
func (f *FakeRemote) DeleteTodo(ctx context.Context, id string) error {
	if err := f.enter(ctx, "delete", "delete:"+id); err != nil {
		return err
	}
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.todos {
		if t.ID == id {
			f.todos = append(f.todos[:i], f.todos[i+1:]...)
			return nil
		}
	}
	return nil
}

// Fixtures returns n todos with ids "1".."n" and titles "Task 1".."Task n".
func Fixtures(n int) []service.Todo {
	todos := make([]service.Todo, n)
	for i := range todos {
		todos[i] = service.Todo{ID: strconv.Itoa(i + 1), Title: fmt.Sprintf("Task %d", i+1)}
	}
	return todos
}
