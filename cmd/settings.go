package main

import (
	"errors"
	"log/slog"

	"pomotray/internal/core/model"
	"pomotray/internal/core/timekeeper"
)

type settingsUpdater interface {
	UpdateSettings(settings model.TimerSettings) error
}

// saveSettings applies settings from the preferences window. Only invalid
// settings are returned as an error; a failed write keeps the settings for
// this run and warns the user instead.
func saveSettings(updater settingsUpdater, notifier timekeeper.Notifier, logger *slog.Logger, updated model.TimerSettings) error {
	err := updater.UpdateSettings(updated)
	if errors.Is(err, model.ErrInvalidSettings) {
		return err
	}
	if err != nil {
		logger.Warn("preferences: settings kept for this run only", slogKeyError, err)
		notifier.Notify("Settings not saved", "Your changes apply until the app exits.", true)
		return nil
	}
	notifier.Notify("Settings Saved", "Your timer settings have been updated.", false)
	return nil
}
