// Package notify delivers phase-completion cues to the user.
package notify

import (
	"log/slog"

	"fyne.io/fyne/v2"
)

// Desktop shows notifications through the fyne app and plays the chime.
type Desktop struct {
	app           fyne.App
	chime         *Chime
	notifications bool
	logger        *slog.Logger
}

// DesktopConfig configures a Desktop notifier.
type DesktopConfig struct {
	// Chime may be nil to stay silent.
	Chime         *Chime
	Notifications bool
	Logger        *slog.Logger
}

// NewDesktop creates a notifier bound to app.
func NewDesktop(app fyne.App, config DesktopConfig) *Desktop {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Desktop{
		app:           app,
		chime:         config.Chime,
		notifications: config.Notifications,
		logger:        logger,
	}
}

// Notify shows a transient desktop notification.
func (desktop *Desktop) Notify(title, message string, destructive bool) {
	logNotification(desktop.logger, title, message, destructive)
	if !desktop.notifications || desktop.app == nil {
		return
	}
	desktop.app.SendNotification(fyne.NewNotification(title, message))
}

// PlayChime plays the completion chime.
func (desktop *Desktop) PlayChime() {
	if desktop.chime != nil {
		desktop.chime.Play()
	}
}

// Log writes notifications to a logger. It is used without a display.
type Log struct {
	Logger *slog.Logger
	Chime  *Chime
}

// Notify logs the notification.
func (notifier Log) Notify(title, message string, destructive bool) {
	logger := notifier.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logNotification(logger, title, message, destructive)
}

// PlayChime plays the chime when one is configured.
func (notifier Log) PlayChime() {
	if notifier.Chime != nil {
		notifier.Chime.Play()
	}
}

func logNotification(logger *slog.Logger, title, message string, destructive bool) {
	if destructive {
		logger.Warn("notify: "+title, "message", message)
		return
	}
	logger.Info("notify: "+title, "message", message)
}
