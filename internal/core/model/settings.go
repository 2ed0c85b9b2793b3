package model

import (
	"errors"
	"fmt"
	"time"
)

// Duration bounds accepted for each phase, in minutes.
const (
	MinWorkMinutes  = 1
	MaxWorkMinutes  = 60
	MinBreakMinutes = 1
	MaxBreakMinutes = 30

	DefaultWorkMinutes  = 25
	DefaultBreakMinutes = 5
)

// ErrInvalidSettings reports settings outside the accepted ranges.
var ErrInvalidSettings = errors.New("invalid timer settings")

// TimerSettings contains the user-configurable timer behavior.
type TimerSettings struct {
	WorkMinutes  int
	BreakMinutes int
	AutoBreak    bool
	AutoStart    bool

	// DarkMode is only read by the presentation layer.
	DarkMode bool
}

// DefaultTimerSettings returns the settings used when nothing was saved.
func DefaultTimerSettings() TimerSettings {
	return TimerSettings{
		WorkMinutes:  DefaultWorkMinutes,
		BreakMinutes: DefaultBreakMinutes,
		AutoBreak:    true,
		AutoStart:    true,
		DarkMode:     false,
	}
}

// Validate reports whether both durations are in range.
func (settings TimerSettings) Validate() error {
	if settings.WorkMinutes < MinWorkMinutes || settings.WorkMinutes > MaxWorkMinutes {
		return fmt.Errorf("%w: work minutes %d not in %d..%d", ErrInvalidSettings, settings.WorkMinutes, MinWorkMinutes, MaxWorkMinutes)
	}
	if settings.BreakMinutes < MinBreakMinutes || settings.BreakMinutes > MaxBreakMinutes {
		return fmt.Errorf("%w: break minutes %d not in %d..%d", ErrInvalidSettings, settings.BreakMinutes, MinBreakMinutes, MaxBreakMinutes)
	}
	return nil
}

// Normalize clamps durations into range. Zero values take the defaults.
func (settings TimerSettings) Normalize() TimerSettings {
	if settings.WorkMinutes <= 0 {
		settings.WorkMinutes = DefaultWorkMinutes
	}
	if settings.BreakMinutes <= 0 {
		settings.BreakMinutes = DefaultBreakMinutes
	}
	settings.WorkMinutes = clamp(settings.WorkMinutes, MinWorkMinutes, MaxWorkMinutes)
	settings.BreakMinutes = clamp(settings.BreakMinutes, MinBreakMinutes, MaxBreakMinutes)
	return settings
}

// WorkDuration returns the work phase length.
func (settings TimerSettings) WorkDuration() time.Duration {
	return time.Duration(settings.WorkMinutes) * time.Minute
}

// BreakDuration returns the break phase length.
func (settings TimerSettings) BreakDuration() time.Duration {
	return time.Duration(settings.BreakMinutes) * time.Minute
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
