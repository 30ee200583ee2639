// Package service defines the backend-agnostic interface for the remote todo resource.
package service

import "context"

// Remote defines the interface for the remote list resource.
// Every backend call the store makes goes through this interface.
// The store never imports a backend package directly.
type Remote interface {
	// ListTodos returns up to limit todos in API order.
	ListTodos(ctx context.Context, limit int) ([]Todo, error)

	// CreateTodo creates a todo and returns the server's echo,
	// including the id the server assigned.
	CreateTodo(ctx context.Context, title string, completed bool) (Todo, error)

	// UpdateTodo replaces title and completed for the todo with the given id
	// and returns the server's echo.
	UpdateTodo(ctx context.Context, id, title string, completed bool) (Todo, error)

	// DeleteTodo deletes the todo with the given id.
	DeleteTodo(ctx context.Context, id string) error
}
