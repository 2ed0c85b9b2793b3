package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// ErrDegraded is returned once, by the write that failed, when the store
// stops persisting and keeps history in memory only.
var ErrDegraded = errors.New("session history is no longer persisted")

const slogKeyError = "error"

// Backend persists the full history as a single record.
type Backend interface {
	Load() ([]Session, error)
	Save(sessions []Session) error
	Delete() error
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for persistence diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(store *Store) {
		if logger != nil {
			store.logger = logger
		}
	}
}

// Store is the append-only session history. Every mutation is written through
// to the backend before the call returns.
type Store struct {
	mu       sync.RWMutex
	backend  Backend
	sessions []Session
	degraded bool
	logger   *slog.Logger
}

// NewStore creates an empty store. A nil backend keeps history in memory.
func NewStore(backend Backend, opts ...Option) *Store {
	store := &Store{
		backend: backend,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Load replaces the in-memory history with the persisted one. Entries are
// ordered by completion time.
func (store *Store) Load() error {
	if store.backend == nil {
		return nil
	}
	loaded, err := store.backend.Load()
	if err != nil {
		return fmt.Errorf("load session history: %w", err)
	}
	sort.SliceStable(loaded, func(i, j int) bool {
		return loaded[i].CompletedAt.Before(loaded[j].CompletedAt)
	})

	store.mu.Lock()
	store.sessions = loaded
	store.mu.Unlock()
	return nil
}

// Append records a session at the end of the history.
func (store *Store) Append(session Session) error {
	if err := session.Validate(); err != nil {
		return err
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	if count := len(store.sessions); count > 0 {
		last := store.sessions[count-1].CompletedAt
		if session.CompletedAt.Before(last) {
			session.CompletedAt = last
		}
	}
	store.sessions = append(store.sessions, session)
	return store.persistLocked()
}

// All returns a copy of the full history in completion order.
func (store *Store) All() []Session {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.snapshotLocked()
}

// ForDate returns sessions completed on the calendar date of date, in date's
// location.
func (store *Store) ForDate(date time.Time) []Session {
	return OnDate(store.All(), date)
}

// Len returns the number of recorded sessions.
func (store *Store) Len() int {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return len(store.sessions)
}

// Clear drops all sessions and removes the persisted record.
func (store *Store) Clear() error {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.sessions = nil
	if store.backend == nil {
		return nil
	}
	if err := store.backend.Delete(); err != nil {
		return fmt.Errorf("delete session history: %w", err)
	}
	return nil
}

// PurgeOlderThan removes sessions completed before cutoff and returns how many
// were dropped.
func (store *Store) PurgeOlderThan(cutoff time.Time) (int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	kept := store.sessions[:0:0]
	for _, session := range store.sessions {
		if session.CompletedAt.Before(cutoff) {
			continue
		}
		kept = append(kept, session)
	}
	removed := len(store.sessions) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	store.sessions = kept
	return removed, store.persistLocked()
}

func (store *Store) persistLocked() error {
	if store.backend == nil || store.degraded {
		return nil
	}
	if err := store.backend.Save(store.snapshotLocked()); err != nil {
		store.degraded = true
		store.logger.Warn("session store: write failed, keeping history in memory", slogKeyError, err)
		return fmt.Errorf("%w: %w", ErrDegraded, err)
	}
	return nil
}

func (store *Store) snapshotLocked() []Session {
	return append([]Session(nil), store.sessions...)
}
