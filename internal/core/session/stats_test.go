package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomotray/internal/core/session"
)

func TestCompletedCycles(t *testing.T) {
	tests := []struct {
		name     string
		sessions []session.Session
		expected int
	}{
		{name: "empty", expected: 0},
		{name: "work only", sessions: []session.Session{work(baseTime), work(baseTime)}, expected: 0},
		{name: "paired", sessions: []session.Session{work(baseTime), rest(baseTime), work(baseTime)}, expected: 1},
		{name: "two pairs", sessions: []session.Session{work(baseTime), rest(baseTime), work(baseTime), rest(baseTime)}, expected: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, session.CompletedCycles(tt.sessions))
		})
	}
}

func TestTotalAndAverageMinutes(t *testing.T) {
	sessions := []session.Session{
		work(baseTime),
		{Kind: session.KindWork, DurationMinutes: 50, CompletedAt: baseTime},
		rest(baseTime),
	}

	assert.Equal(t, 75, session.TotalMinutes(sessions, session.KindWork))
	assert.Equal(t, 5, session.TotalMinutes(sessions, session.KindBreak))
	assert.Equal(t, 38, session.AverageMinutes(sessions, session.KindWork))
	assert.Zero(t, session.AverageMinutes(nil, session.KindWork))
}

func TestStreak(t *testing.T) {
	tests := []struct {
		name     string
		sessions []session.Session
		expected int
	}{
		{name: "no sessions", expected: 0},
		{
			name:     "nothing today breaks the streak",
			sessions: []session.Session{work(baseTime.AddDate(0, 0, -1))},
			expected: 0,
		},
		{
			name: "three consecutive days",
			sessions: []session.Session{
				work(baseTime.AddDate(0, 0, -2)),
				work(baseTime.AddDate(0, 0, -1)),
				work(baseTime),
			},
			expected: 3,
		},
		{
			name: "gap stops the walk",
			sessions: []session.Session{
				work(baseTime.AddDate(0, 0, -3)),
				work(baseTime.AddDate(0, 0, -1)),
				work(baseTime),
			},
			expected: 2,
		},
		{
			name:     "break sessions do not qualify",
			sessions: []session.Session{rest(baseTime)},
			expected: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, session.Streak(tt.sessions, baseTime))
		})
	}
}

func TestStreakIsCappedByLookback(t *testing.T) {
	var sessions []session.Session
	for offset := 0; offset < 45; offset++ {
		sessions = append(sessions, work(baseTime.AddDate(0, 0, -offset)))
	}

	assert.Equal(t, session.StreakLookbackDays, session.Streak(sessions, baseTime))
}

func TestDailyIsOldestFirst(t *testing.T) {
	sessions := []session.Session{
		work(baseTime.AddDate(0, 0, -6)),
		work(baseTime),
		rest(baseTime.Add(time.Minute)),
	}

	days := session.Daily(sessions, baseTime, 7)
	require.Len(t, days, 7)
	assert.Equal(t, 25, days[0].WorkMinutes)
	assert.Equal(t, 1, days[6].Cycles)
	assert.Equal(t, 5, days[6].BreakMinutes)
	assert.True(t, days[0].Date.Before(days[6].Date))
	assert.Nil(t, session.Daily(sessions, baseTime, 0))
}

func TestSummarize(t *testing.T) {
	sessions := []session.Session{
		work(baseTime.AddDate(0, 0, -1)),
		work(baseTime),
		rest(baseTime.Add(time.Minute)),
		work(baseTime.Add(time.Hour)),
	}

	summary := session.Summarize(sessions, baseTime)

	assert.Equal(t, 1, summary.Today.Cycles)
	assert.Equal(t, 2, summary.Today.WorkSessions)
	assert.Equal(t, 50, summary.Today.WorkMinutes)
	assert.Equal(t, 75, summary.TotalWorkMinutes)
	assert.Equal(t, 3, summary.TotalWorkSessions)
	assert.Equal(t, 25, summary.AverageWorkMinutes)
	assert.Equal(t, 2, summary.Streak)
}
