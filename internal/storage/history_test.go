package storage

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomotray/internal/core/session"
)

func TestHistorySaveLoad(t *testing.T) {
	kv := NewMemoryKV()
	record := NewHistoryRecord(kv, nil)
	completedAt := time.Date(2026, time.May, 4, 14, 30, 15, 0, time.Local)
	sessions := []session.Session{
		{Kind: session.KindWork, DurationMinutes: 25, CompletedAt: completedAt},
		{Kind: session.KindBreak, DurationMinutes: 5, CompletedAt: completedAt.Add(5 * time.Minute)},
	}

	require.NoError(t, record.Save(sessions))
	loaded, err := record.Load()
	require.NoError(t, err)

	require.Len(t, loaded, 2)
	for index := range sessions {
		assert.Equal(t, sessions[index].Kind, loaded[index].Kind)
		assert.Equal(t, sessions[index].DurationMinutes, loaded[index].DurationMinutes)
		assert.True(t, sessions[index].CompletedAt.Equal(loaded[index].CompletedAt))
	}
}

func TestHistoryEntryLayout(t *testing.T) {
	completedAt := time.Date(2026, time.May, 4, 14, 30, 15, 0, time.Local)
	entry := NewHistoryEntry(session.Session{Kind: session.KindWork, DurationMinutes: 25, CompletedAt: completedAt})

	assert.Equal(t, "work", entry.Type)
	assert.Equal(t, 25, entry.Duration)
	assert.Equal(t, "2:30:15 PM", entry.Timestamp)
	assert.Equal(t, "Mon May 04 2026", entry.Date)
	assert.Equal(t, completedAt.UTC().Format("2006-01-02T15:04:05.000Z"), entry.FullTimestamp)

	raw, err := json.Marshal(entry)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"fullTimestamp"`)
}

func TestHistoryLoadMalformedIsEmpty(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(HistoryKey, []byte(`[{"type":`)))

	loaded, err := NewHistoryRecord(kv, nil).Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestHistoryLoadSkipsBadEntriesAndFallsBackToLocaleFields(t *testing.T) {
	kv := NewMemoryKV()
	raw := `[
		{"type":"work","duration":25,"timestamp":"9:15:00 AM","date":"Tue May 05 2026"},
		{"type":"nap","duration":5,"fullTimestamp":"2026-05-05T10:00:00.000Z"},
		{"type":"break","duration":0,"fullTimestamp":"2026-05-05T10:00:00.000Z"},
		{"type":"break","duration":5}
	]`
	require.NoError(t, kv.Set(HistoryKey, []byte(raw)))

	loaded, err := NewHistoryRecord(kv, nil).Load()
	require.NoError(t, err)

	require.Len(t, loaded, 1)
	assert.True(t, time.Date(2026, time.May, 5, 9, 15, 0, 0, time.Local).Equal(loaded[0].CompletedAt))
}

func TestHistoryDelete(t *testing.T) {
	kv := NewMemoryKV()
	record := NewHistoryRecord(kv, nil)
	require.NoError(t, record.Save(nil))

	require.NoError(t, record.Delete())
	loaded, err := record.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
