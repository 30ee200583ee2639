package service

import (
	"errors"
	"fmt"
)

// Todo is a single item of the remote list resource.
type Todo struct {
	ID        string
	Title     string
	Completed bool
}

// Error taxonomy for remote calls. Backends wrap one of these with %w.
var (
	// ErrNetwork means the call was rejected, timed out, or returned a non-2xx status.
	ErrNetwork = errors.New("network error")

	// ErrDecode means the response was not valid JSON or not the expected shape.
	ErrDecode = errors.New("decode error")
)

// NetworkError returns an error wrapping ErrNetwork with a formatted detail.
func NetworkError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNetwork, fmt.Sprintf(format, args...))
}

// DecodeError returns an error wrapping ErrDecode with a formatted detail.
func DecodeError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDecode, fmt.Sprintf(format, args...))
}

// Classify returns the taxonomy name of err for logging.
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDecode):
		return "decode"
	case errors.Is(err, ErrNetwork):
		return "network"
	default:
		return "unknown"
	}
}
