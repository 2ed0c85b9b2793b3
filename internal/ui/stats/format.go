// Package stats renders session statistics for the statistics window and
// the command line.
package stats

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"pomotray/internal/core/session"
)

// WeekDays is the length of the daily series.
const WeekDays = 7

// Report is everything the statistics views display.
type Report struct {
	Summary session.Summary
	Week    []session.DaySummary
	Flow    []session.Session
}

// NewReport aggregates sessions as of now.
func NewReport(sessions []session.Session, now time.Time) Report {
	flow := session.OnDate(sessions, now)
	sort.SliceStable(flow, func(i, j int) bool {
		return flow[i].CompletedAt.After(flow[j].CompletedAt)
	})
	return Report{
		Summary: session.Summarize(sessions, now),
		Week:    session.Daily(sessions, now, WeekDays),
		Flow:    flow,
	}
}

// SummaryLines lists the headline numbers.
func SummaryLines(summary session.Summary) []string {
	return []string{
		fmt.Sprintf("Completed sessions today: %d", summary.Today.Cycles),
		fmt.Sprintf("Work today: %s", FormatMinutes(summary.Today.WorkMinutes)),
		fmt.Sprintf("Break today: %s", FormatMinutes(summary.Today.BreakMinutes)),
		fmt.Sprintf("Total work: %s over %d sessions", FormatMinutes(summary.TotalWorkMinutes), summary.TotalWorkSessions),
		fmt.Sprintf("Average work session: %d min", summary.AverageWorkMinutes),
		fmt.Sprintf("Streak: %s", pluralDays(summary.Streak)),
	}
}

// WeekRows renders one line per day, oldest first.
func WeekRows(days []session.DaySummary) []string {
	rows := make([]string, 0, len(days))
	for _, day := range days {
		rows = append(rows, fmt.Sprintf("%s  %-8s %d sessions",
			day.Date.Format("Mon 01/02"), FormatMinutes(day.WorkMinutes), day.Cycles))
	}
	return rows
}

// FlowRows renders today's sessions in the order given.
func FlowRows(flow []session.Session) []string {
	rows := make([]string, 0, len(flow))
	for _, completed := range flow {
		label := "Work"
		if completed.Kind == session.KindBreak {
			label = "Break"
		}
		rows = append(rows, fmt.Sprintf("%s  %-5s %d min",
			completed.CompletedAt.Local().Format("3:04 PM"), label, completed.DurationMinutes))
	}
	return rows
}

// Text renders the whole report as plain text.
func Text(report Report) string {
	var builder strings.Builder
	for _, line := range SummaryLines(report.Summary) {
		builder.WriteString(line)
		builder.WriteByte('\n')
	}
	builder.WriteString("\nLast 7 days\n")
	for _, row := range WeekRows(report.Week) {
		builder.WriteString("  ")
		builder.WriteString(row)
		builder.WriteByte('\n')
	}
	builder.WriteString("\nToday\n")
	if len(report.Flow) == 0 {
		builder.WriteString("  No sessions yet\n")
	}
	for _, row := range FlowRows(report.Flow) {
		builder.WriteString("  ")
		builder.WriteString(row)
		builder.WriteByte('\n')
	}
	return builder.String()
}

// FormatMinutes renders minutes as "1h 05m" or "45 min".
func FormatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}

func pluralDays(days int) string {
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}
