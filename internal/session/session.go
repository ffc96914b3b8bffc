// Package session holds per-caller conversation state and the stores that
// guard it. A session lives for the life of the process (or the Redis TTL);
// nothing evicts it when the caller hangs up.
package session

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a turn references a session id that was never
// started. Callers surface this as a client error, not an internal fault.
var ErrNotFound = errors.New("session: not found")

// Appointment types collected by the slot-filling engine.
const (
	TypeNew      = "new"
	TypeFollowUp = "follow-up"
)

// Slots is the partial booking state collected across turns. An empty string
// means the slot is unset. Once set, a slot is never overwritten for the
// session's lifetime (first-write-wins).
type Slots struct {
	Type     string `json:"appointment_type,omitempty"`
	Doctor   string `json:"doctor,omitempty"`
	DateTime string `json:"datetime,omitempty"`
}

// Ready reports whether all booking slots are filled.
func (s Slots) Ready() bool {
	return s.Type != "" && s.Doctor != "" && s.DateTime != ""
}

// Turn is one utterance/reply pair.
type Turn struct {
	User  string `json:"user"`
	Reply string `json:"reply"`
}

// Session is the conversational context for one caller.
type Session struct {
	ID string `json:"id"`
	// History is append-only; it is never trimmed.
	History []Turn `json:"history"`
	Slots   Slots  `json:"slots"`
	// LastUserText is the previous normalized utterance, used by the
	// appointment engine's duplicate-turn guard.
	LastUserText string `json:"last_user_text"`
}

// New creates an empty session with the given id.
func New(id string) *Session {
	return &Session{ID: id}
}

// AppendTurn records an utterance/reply pair in the history.
func (s *Session) AppendTurn(user, reply string) {
	s.History = append(s.History, Turn{User: user, Reply: reply})
}

// Store maps session ids to sessions. Update runs fn while holding the
// session's lock, so dialogue mutation on one id is serialized; distinct ids
// never block each other.
type Store interface {
	// Create registers a fresh session under id, replacing any previous one.
	Create(ctx context.Context, id string) (*Session, error)
	// Update looks up the session and applies fn under the per-session lock.
	// Returns ErrNotFound for unknown ids.
	Update(ctx context.Context, id string, fn func(*Session) error) error
}
