package session

import (
	"math"
	"time"
)

// StreakLookbackDays bounds how far back Streak walks.
const StreakLookbackDays = 30

// DaySummary aggregates the sessions of one calendar day.
type DaySummary struct {
	Date          time.Time
	WorkSessions  int
	BreakSessions int
	Cycles        int
	WorkMinutes   int
	BreakMinutes  int
}

// Summary is the aggregate shown by statistics views.
type Summary struct {
	Today              DaySummary
	TotalWorkMinutes   int
	TotalWorkSessions  int
	AverageWorkMinutes int
	Streak             int
}

// OnDate filters sessions completed on the calendar date of date, compared in
// date's location.
func OnDate(sessions []Session, date time.Time) []Session {
	var matched []Session
	for _, session := range sessions {
		if sameDay(session.CompletedAt, date) {
			matched = append(matched, session)
		}
	}
	return matched
}

// CountKind counts sessions of the given kind.
func CountKind(sessions []Session, kind Kind) int {
	count := 0
	for _, session := range sessions {
		if session.Kind == kind {
			count++
		}
	}
	return count
}

// CompletedCycles counts closed work+break pairs: min(work, break).
func CompletedCycles(sessions []Session) int {
	work := CountKind(sessions, KindWork)
	rest := CountKind(sessions, KindBreak)
	if work < rest {
		return work
	}
	return rest
}

// TotalMinutes sums the configured durations of sessions of the given kind.
func TotalMinutes(sessions []Session, kind Kind) int {
	total := 0
	for _, session := range sessions {
		if session.Kind == kind {
			total += session.DurationMinutes
		}
	}
	return total
}

// AverageMinutes returns the rounded mean duration for kind, or 0.
func AverageMinutes(sessions []Session, kind Kind) int {
	count := CountKind(sessions, kind)
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(TotalMinutes(sessions, kind)) / float64(count)))
}

// Streak counts consecutive days, starting with the day of asOf and walking
// backwards, that contain at least one work session. The walk stops at the
// first day without one and never looks further back than StreakLookbackDays.
func Streak(sessions []Session, asOf time.Time) int {
	location := asOf.Location()
	workDays := make(map[int]struct{})
	for _, session := range sessions {
		if session.Kind == KindWork {
			workDays[dayKey(session.CompletedAt.In(location))] = struct{}{}
		}
	}

	start := startOfDay(asOf)
	streak := 0
	for offset := 0; offset < StreakLookbackDays; offset++ {
		day := start.AddDate(0, 0, -offset)
		if _, ok := workDays[dayKey(day)]; !ok {
			break
		}
		streak++
	}
	return streak
}

// SummarizeDay aggregates the sessions completed on date.
func SummarizeDay(sessions []Session, date time.Time) DaySummary {
	day := OnDate(sessions, date)
	return DaySummary{
		Date:          startOfDay(date),
		WorkSessions:  CountKind(day, KindWork),
		BreakSessions: CountKind(day, KindBreak),
		Cycles:        CompletedCycles(day),
		WorkMinutes:   TotalMinutes(day, KindWork),
		BreakMinutes:  TotalMinutes(day, KindBreak),
	}
}

// Daily returns one summary per day for the days ending with asOf, oldest
// first.
func Daily(sessions []Session, asOf time.Time, days int) []DaySummary {
	if days <= 0 {
		return nil
	}
	start := startOfDay(asOf)
	summaries := make([]DaySummary, 0, days)
	for offset := days - 1; offset >= 0; offset-- {
		summaries = append(summaries, SummarizeDay(sessions, start.AddDate(0, 0, -offset)))
	}
	return summaries
}

// Summarize builds the aggregate consumed by every statistics view.
func Summarize(sessions []Session, asOf time.Time) Summary {
	return Summary{
		Today:              SummarizeDay(sessions, asOf),
		TotalWorkMinutes:   TotalMinutes(sessions, KindWork),
		TotalWorkSessions:  CountKind(sessions, KindWork),
		AverageWorkMinutes: AverageMinutes(sessions, KindWork),
		Streak:             Streak(sessions, asOf),
	}
}

func sameDay(value, reference time.Time) bool {
	return dayKey(value.In(reference.Location())) == dayKey(reference)
}

func dayKey(value time.Time) int {
	year, month, day := value.Date()
	return year*10000 + int(month)*100 + day
}

func startOfDay(value time.Time) time.Time {
	year, month, day := value.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, value.Location())
}
