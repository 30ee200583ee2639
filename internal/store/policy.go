package store

import (
	"fmt"
	"strings"
)

// WritePolicy selects how mutations are reconciled with the remote list.
type WritePolicy int

const (
	// ConfirmThenApply mutates local state only after the remote call
	// succeeds, using the values the server echoes back.
	ConfirmThenApply WritePolicy = iota

	// Optimistic mutates local state immediately and mirrors the change to
	// the remote in the background. Failures are reported but never rolled back.
	Optimistic
)

// String returns the config-file spelling of the policy.
func (p WritePolicy) String() string {
	switch p {
	case ConfirmThenApply:
		return "confirm"
	case Optimistic:
		return "optimistic"
	default:
		return fmt.Sprintf("WritePolicy(%d)", int(p))
	}
}

// ParsePolicy parses "confirm" or "optimistic" (case-insensitive, trimmed).
func ParsePolicy(s string) (WritePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "confirm", "confirm-then-apply":
		return ConfirmThenApply, nil
	case "optimistic":
		return Optimistic, nil
	default:
		return 0, fmt.Errorf("unknown write policy: %q", s)
	}
}
