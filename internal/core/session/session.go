package session

import (
	"errors"
	"fmt"
	"time"
)

// Kind identifies which phase a session completed.
type Kind string

const (
	KindWork  Kind = "work"
	KindBreak Kind = "break"
)

// Valid reports whether kind is a known phase kind.
func (kind Kind) Valid() bool {
	return kind == KindWork || kind == KindBreak
}

// ErrInvalidSession indicates a session that cannot be recorded.
var ErrInvalidSession = errors.New("invalid session")

// Session is one completed work or break interval. Sessions are never mutated
// after creation.
type Session struct {
	Kind            Kind
	DurationMinutes int
	CompletedAt     time.Time
}

// Validate checks the kind and duration.
func (session Session) Validate() error {
	if !session.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidSession, session.Kind)
	}
	if session.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration %d", ErrInvalidSession, session.DurationMinutes)
	}
	return nil
}
