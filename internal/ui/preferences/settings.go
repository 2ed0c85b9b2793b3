package preferences

import (
	"fmt"
	"strconv"
	"strings"

	"pomotray/internal/core/model"
)

// Form holds the raw values of the settings form.
type Form struct {
	WorkMinutes  string
	BreakMinutes string
	AutoBreak    bool
	AutoStart    bool
	DarkMode     bool
}

// FormFromSettings fills a form with settings.
func FormFromSettings(settings model.TimerSettings) Form {
	return Form{
		WorkMinutes:  strconv.Itoa(settings.WorkMinutes),
		BreakMinutes: strconv.Itoa(settings.BreakMinutes),
		AutoBreak:    settings.AutoBreak,
		AutoStart:    settings.AutoStart,
		DarkMode:     settings.DarkMode,
	}
}

// Settings parses and validates the form. Durations out of range are
// rejected rather than clamped so the user sees what was wrong.
func (form Form) Settings() (model.TimerSettings, error) {
	work, err := parseMinutes("work duration", form.WorkMinutes)
	if err != nil {
		return model.TimerSettings{}, err
	}
	rest, err := parseMinutes("break duration", form.BreakMinutes)
	if err != nil {
		return model.TimerSettings{}, err
	}

	settings := model.TimerSettings{
		WorkMinutes:  work,
		BreakMinutes: rest,
		AutoBreak:    form.AutoBreak,
		AutoStart:    form.AutoStart,
		DarkMode:     form.DarkMode,
	}
	if err := settings.Validate(); err != nil {
		return model.TimerSettings{}, err
	}
	return settings, nil
}

func parseMinutes(field, value string) (int, error) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a whole number of minutes", model.ErrInvalidSettings, field)
	}
	return parsed, nil
}
