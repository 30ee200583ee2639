package store

import (
	"strconv"
	"strings"
)

// LocalIDPrefix marks ids generated by the store rather than assigned by the
// server. Server ids never carry it, so the two namespaces cannot collide.
const LocalIDPrefix = "local-"

// IsLocalID reports whether id was generated locally and has no remote counterpart.
func IsLocalID(id string) bool {
	return strings.HasPrefix(id, LocalIDPrefix)
}

// nextLocalIDLocked returns a timestamp-based id that is strictly greater
// than every local id handed out before. Caller must hold s.mu.
func (s *Store) nextLocalIDLocked() string {
	ms := s.now().UnixMilli()
	if ms <= s.lastLocal {
		ms = s.lastLocal + 1
	}
	s.lastLocal = ms
	return LocalIDPrefix + strconv.FormatInt(ms, 10)
}
