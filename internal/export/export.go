// Package export writes session history in shareable formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"pomotray/internal/core/session"
	"pomotray/internal/storage"
)

// Format names accepted by Write.
const (
	FormatCSV     = "csv"
	FormatJSON    = "json"
	FormatSummary = "summary"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// ErrUnknownFormat is returned for a format name Write does not support.
var ErrUnknownFormat = errors.New("unknown export format")

var sessionHeader = []string{"Date", "Time", "Type", "Duration (minutes)"}

// Write encodes sessions in the named format.
func Write(w io.Writer, format string, sessions []session.Session) error {
	switch strings.ToLower(format) {
	case FormatCSV:
		return WriteCSV(w, sessions)
	case FormatJSON:
		return WriteJSON(w, sessions)
	case FormatSummary:
		return WriteSummaryCSV(w, sessions)
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}

// CheckFormat reports whether Write supports format.
func CheckFormat(format string) error {
	switch strings.ToLower(format) {
	case FormatCSV, FormatJSON, FormatSummary:
		return nil
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}

// Extension returns the file extension used for format.
func Extension(format string) string {
	if strings.ToLower(format) == FormatJSON {
		return ".json"
	}
	return ".csv"
}

// FileName suggests a dated file name for an export made at now.
func FileName(format string, now time.Time) string {
	return "pomodoro-sessions-" + now.Format(dateLayout) + Extension(format)
}

// WriteCSV writes one row per session in local time.
func WriteCSV(w io.Writer, sessions []session.Session) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(sessionHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, completed := range sessions {
		local := completed.CompletedAt.Local()
		row := []string{
			local.Format(dateLayout),
			local.Format(timeLayout),
			kindLabel(completed.Kind),
			strconv.Itoa(completed.DurationMinutes),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteJSON writes the history record array with two-space indentation.
func WriteJSON(w io.Writer, sessions []session.Session) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(storage.HistoryEntries(sessions)); err != nil {
		return fmt.Errorf("encode json export: %w", err)
	}
	return nil
}

// WriteSummaryCSV writes one row per day that has sessions, oldest first,
// followed by a totals row.
func WriteSummaryCSV(w io.Writer, sessions []session.Session) error {
	writer := csv.NewWriter(w)
	rows := [][]string{{"Day", "Date", "Sessions", "Work Min", "Break Min"}}

	var totalCycles, totalWork, totalBreak int
	for _, day := range summaryDays(sessions) {
		totalCycles += day.Cycles
		totalWork += day.WorkMinutes
		totalBreak += day.BreakMinutes
		rows = append(rows, []string{
			day.Date.Weekday().String(),
			day.Date.Format(dateLayout),
			strconv.Itoa(day.Cycles),
			strconv.Itoa(day.WorkMinutes),
			strconv.Itoa(day.BreakMinutes),
		})
	}
	rows = append(rows,
		[]string{},
		[]string{"Total", "", strconv.Itoa(totalCycles), strconv.Itoa(totalWork), strconv.Itoa(totalBreak)},
	)

	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("write summary csv: %w", err)
	}
	return nil
}

func summaryDays(sessions []session.Session) []session.DaySummary {
	var days []session.DaySummary
	seen := map[string]bool{}
	for _, completed := range sessions {
		local := completed.CompletedAt.Local()
		key := local.Format(dateLayout)
		if seen[key] {
			continue
		}
		seen[key] = true
		days = append(days, session.SummarizeDay(sessions, local))
	}
	return days
}

func kindLabel(kind session.Kind) string {
	if kind == session.KindBreak {
		return "Break"
	}
	return "Work"
}
