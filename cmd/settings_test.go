package main

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomotray/internal/core/model"
	"pomotray/internal/core/session"
	"pomotray/internal/core/timekeeper"
)

type brokenPersister struct{}

func (brokenPersister) Save(model.TimerSettings) error {
	return errors.New("disk full")
}

type sentNotification struct {
	title       string
	destructive bool
}

type recordingNotifier struct {
	sent []sentNotification
}

func (notifier *recordingNotifier) Notify(title, _ string, destructive bool) {
	notifier.sent = append(notifier.sent, sentNotification{title: title, destructive: destructive})
}

func (notifier *recordingNotifier) PlayChime() {}

func newSettingsKeeper(t *testing.T, persister model.SettingsPersister) (*timekeeper.TimeKeeper, *model.SettingsStore) {
	t.Helper()
	settings := model.NewSettingsStore(model.DefaultTimerSettings(), persister)
	keeper := timekeeper.New(settings, session.NewStore(nil), timekeeper.Config{})
	t.Cleanup(keeper.Close)
	return keeper, settings
}

func TestSaveSettingsWarnsWhenWriteFails(t *testing.T) {
	keeper, settings := newSettingsKeeper(t, brokenPersister{})
	notifier := &recordingNotifier{}
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	updated := model.DefaultTimerSettings()
	updated.WorkMinutes = 40
	require.NoError(t, saveSettings(keeper, notifier, logger, updated))

	assert.Equal(t, 40, settings.Get().WorkMinutes, "settings stay in effect for this run")
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, sentNotification{title: "Settings not saved", destructive: true}, notifier.sent[0])
	assert.Contains(t, logs.String(), "disk full")
}

func TestSaveSettingsConfirmsSuccessfulWrite(t *testing.T) {
	keeper, _ := newSettingsKeeper(t, nil)
	notifier := &recordingNotifier{}

	require.NoError(t, saveSettings(keeper, notifier, slog.Default(), model.DefaultTimerSettings()))

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, sentNotification{title: "Settings Saved"}, notifier.sent[0])
}

func TestSaveSettingsReturnsValidationErrors(t *testing.T) {
	keeper, settings := newSettingsKeeper(t, nil)
	notifier := &recordingNotifier{}

	invalid := model.DefaultTimerSettings()
	invalid.BreakMinutes = 90
	err := saveSettings(keeper, notifier, slog.Default(), invalid)

	assert.ErrorIs(t, err, model.ErrInvalidSettings)
	assert.Empty(t, notifier.sent)
	assert.Equal(t, model.DefaultTimerSettings(), settings.Get())
}
