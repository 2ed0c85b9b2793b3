package timekeeper

import (
	"time"

	"pomotray/internal/core/session"
)

// Phase is the current countdown mode.
type Phase string

const (
	PhaseWork  Phase = "work"
	PhaseBreak Phase = "break"
)

// Kind maps the phase to the session kind it records.
func (phase Phase) Kind() session.Kind {
	if phase == PhaseBreak {
		return session.KindBreak
	}
	return session.KindWork
}

// EventType defines the type of TimeKeeper event.
type EventType string

const (
	EventStateChange     EventType = "state_change"
	EventProgress        EventType = "progress"
	EventSessionComplete EventType = "session_complete"
	EventHistoryCleared  EventType = "history_cleared"
	EventWarning         EventType = "warning"
)

// Event represents a TimeKeeper update for observers.
type Event struct {
	Type      EventType
	Phase     Phase
	Running   bool
	Remaining time.Duration
	Progress  float64
	Session   *session.Session
	Message   string
	At        time.Time
}

// Snapshot is a read-only view of the live timer state.
type Snapshot struct {
	Phase            Phase
	RemainingSeconds int
	Running          bool
	PhaseMinutes     int
	Progress         float64
	ResumePending    bool
}

// Remaining returns the remaining countdown as a duration.
func (snapshot Snapshot) Remaining() time.Duration {
	return time.Duration(snapshot.RemainingSeconds) * time.Second
}
