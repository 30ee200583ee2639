package store

import "errors"

// ErrNotFound is returned by Toggle and Remove for an id not in the list.
var ErrNotFound = errors.New("task not found")

// User-facing messages. Each failure overwrites the previous one.
const (
	MsgLoadFailed   = "could not load tasks from the API"
	MsgAddFailed    = "could not add the task"
	MsgToggleFailed = "could not update the task"
	MsgRemoveFailed = "could not delete the task"
)

// Op names a mutating store operation.
type Op string

const (
	OpAdd    Op = "add"
	OpToggle Op = "toggle"
	OpRemove Op = "remove"
)

// FetchError is returned by Load when the remote list could not be fetched
// or decoded. The local list is left unchanged.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string { return "fetch todos: " + e.Err.Error() }
func (e *FetchError) Unwrap() error { return e.Err }

// MutationError is returned by a confirm-then-apply mutation whose remote
// call failed. The local list is left unchanged.
type MutationError struct {
	Op  Op
	Err error
}

func (e *MutationError) Error() string { return string(e.Op) + " todo: " + e.Err.Error() }
func (e *MutationError) Unwrap() error { return e.Err }
