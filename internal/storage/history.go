package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"pomotray/internal/core/session"
)

// HistoryKey is the key of the session history record.
const HistoryKey = "history"

// Layouts used by the history record.
const (
	TimeLayout     = "3:04:05 PM"
	DateLayout     = "Mon Jan 02 2006"
	isoLayout      = "2006-01-02T15:04:05.000Z07:00"
	fallbackLayout = DateLayout + " " + TimeLayout
)

// HistoryEntry is the persisted form of a session.
type HistoryEntry struct {
	Type          string `json:"type"`
	Duration      int    `json:"duration"`
	Timestamp     string `json:"timestamp"`
	Date          string `json:"date"`
	FullTimestamp string `json:"fullTimestamp"`
}

// NewHistoryEntry converts a session. Locale fields use the local time zone.
func NewHistoryEntry(completed session.Session) HistoryEntry {
	local := completed.CompletedAt.Local()
	return HistoryEntry{
		Type:          string(completed.Kind),
		Duration:      completed.DurationMinutes,
		Timestamp:     local.Format(TimeLayout),
		Date:          local.Format(DateLayout),
		FullTimestamp: completed.CompletedAt.UTC().Format(isoLayout),
	}
}

// Session converts the entry back. It fails for entries that cannot be placed
// in time or that describe an invalid session.
func (entry HistoryEntry) Session() (session.Session, error) {
	completedAt, err := entry.completedAt()
	if err != nil {
		return session.Session{}, err
	}
	converted := session.Session{
		Kind:            session.Kind(entry.Type),
		DurationMinutes: entry.Duration,
		CompletedAt:     completedAt,
	}
	if err := converted.Validate(); err != nil {
		return session.Session{}, err
	}
	return converted, nil
}

func (entry HistoryEntry) completedAt() (time.Time, error) {
	if entry.FullTimestamp != "" {
		parsed, err := time.Parse(time.RFC3339Nano, entry.FullTimestamp)
		if err == nil {
			return parsed.Local(), nil
		}
	}
	if entry.Date != "" && entry.Timestamp != "" {
		parsed, err := time.ParseInLocation(fallbackLayout, entry.Date+" "+entry.Timestamp, time.Local)
		if err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("history entry has no usable timestamp")
}

// HistoryEntries converts sessions in order.
func HistoryEntries(sessions []session.Session) []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(sessions))
	for _, completed := range sessions {
		entries = append(entries, NewHistoryEntry(completed))
	}
	return entries
}

// HistoryRecord persists session history as a JSON array. It implements
// session.Backend.
type HistoryRecord struct {
	kv     KV
	logger *slog.Logger
}

// NewHistoryRecord wraps kv. A nil logger uses slog.Default.
func NewHistoryRecord(kv KV, logger *slog.Logger) *HistoryRecord {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryRecord{kv: kv, logger: logger}
}

// Load reads the history. A malformed record is treated as empty and unusable
// entries are skipped.
func (record *HistoryRecord) Load() ([]session.Session, error) {
	raw, err := record.kv.Get(HistoryKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var entries []HistoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		record.logger.Warn("history: malformed record, starting empty", "error", err)
		return nil, nil
	}

	sessions := make([]session.Session, 0, len(entries))
	for index, entry := range entries {
		converted, err := entry.Session()
		if err != nil {
			record.logger.Warn("history: skipping entry", "index", index, "error", err)
			continue
		}
		sessions = append(sessions, converted)
	}
	return sessions, nil
}

// Save replaces the history record.
func (record *HistoryRecord) Save(sessions []session.Session) error {
	serialized, err := json.Marshal(HistoryEntries(sessions))
	if err != nil {
		return fmt.Errorf("marshal history json: %w", err)
	}
	return record.kv.Set(HistoryKey, serialized)
}

// Delete removes the history record.
func (record *HistoryRecord) Delete() error {
	return record.kv.Delete(HistoryKey)
}
