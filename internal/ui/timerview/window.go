// Package timerview shows the countdown with its controls.
package timerview

import (
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"pomotray/internal/core/timekeeper"
)

var (
	workColor  = color.NRGBA{R: 220, G: 68, B: 55, A: 255}
	breakColor = color.NRGBA{R: 46, G: 160, B: 90, A: 255}
)

// Callbacks defines the window's control handlers.
type Callbacks struct {
	OnToggle func()
	OnReset  func()
}

// Window manages the timer window.
type Window struct {
	window       fyne.Window
	phaseLabel   *canvas.Text
	timerLabel   *canvas.Text
	progress     *widget.ProgressBar
	toggleButton *widget.Button
	resetButton  *widget.Button
	cyclesLabel  *widget.Label
	callbacks    Callbacks
}

// New creates the hidden timer window.
func New(app fyne.App, callbacks Callbacks) *Window {
	window := app.NewWindow("Pomodoro Timer")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	phaseLabel := canvas.NewText("Focus Time", workColor)
	phaseLabel.Alignment = fyne.TextAlignCenter
	phaseLabel.TextStyle = fyne.TextStyle{Bold: true}
	phaseLabel.TextSize = 18

	timerLabel := canvas.NewText("25:00", workColor)
	timerLabel.Alignment = fyne.TextAlignCenter
	timerLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	timerLabel.TextSize = 48

	progress := widget.NewProgressBar()
	progress.TextFormatter = func() string {
		return fmt.Sprintf("%.0f%%", progress.Value*100)
	}

	view := &Window{
		window:      window,
		phaseLabel:  phaseLabel,
		timerLabel:  timerLabel,
		progress:    progress,
		cyclesLabel: widget.NewLabel("Completed sessions today: 0"),
		callbacks:   callbacks,
	}
	view.cyclesLabel.Alignment = fyne.TextAlignCenter

	view.toggleButton = widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), func() {
		if view.callbacks.OnToggle != nil {
			view.callbacks.OnToggle()
		}
	})
	view.toggleButton.Importance = widget.HighImportance
	view.resetButton = widget.NewButtonWithIcon("Reset", theme.MediaReplayIcon(), func() {
		if view.callbacks.OnReset != nil {
			view.callbacks.OnReset()
		}
	})

	buttons := container.NewHBox(layout.NewSpacer(), view.toggleButton, view.resetButton, layout.NewSpacer())
	content := container.NewVBox(phaseLabel, timerLabel, progress, buttons, view.cyclesLabel)
	window.SetContent(container.NewPadded(content))
	window.Resize(fyne.NewSize(320, 260))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	return view
}

// Show displays the window.
func (view *Window) Show() {
	view.window.Show()
	view.window.RequestFocus()
}

// Window exposes the underlying fyne window, used as a dialog parent.
func (view *Window) Window() fyne.Window {
	return view.window
}

// Update applies a TimeKeeper snapshot on the UI goroutine.
func (view *Window) Update(snapshot timekeeper.Snapshot) {
	fyne.Do(func() {
		view.applyUnsafe(snapshot)
	})
}

// SetCycles updates the completed-sessions counter on the UI goroutine.
func (view *Window) SetCycles(cycles int) {
	fyne.Do(func() {
		view.setCyclesUnsafe(cycles)
	})
}

func (view *Window) applyUnsafe(snapshot timekeeper.Snapshot) {
	tint := workColor
	if snapshot.Phase == timekeeper.PhaseBreak {
		tint = breakColor
	}

	view.phaseLabel.Text = PhaseTitle(snapshot.Phase)
	view.phaseLabel.Color = tint
	view.phaseLabel.Refresh()

	view.timerLabel.Text = FormatRemaining(snapshot.Remaining())
	view.timerLabel.Color = tint
	view.timerLabel.Refresh()

	view.progress.SetValue(snapshot.Progress)

	if snapshot.Running {
		view.toggleButton.SetText("Pause")
		view.toggleButton.SetIcon(theme.MediaPauseIcon())
	} else {
		view.toggleButton.SetText("Start")
		view.toggleButton.SetIcon(theme.MediaPlayIcon())
	}
}

func (view *Window) setCyclesUnsafe(cycles int) {
	view.cyclesLabel.SetText(fmt.Sprintf("Completed sessions today: %d", cycles))
}

// PhaseTitle is the heading shown for phase.
func PhaseTitle(phase timekeeper.Phase) string {
	if phase == timekeeper.PhaseBreak {
		return "Break Time"
	}
	return "Focus Time"
}

// FormatRemaining renders a countdown as mm:ss.
func FormatRemaining(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int(remaining.Seconds())
	minutes := seconds / 60
	seconds = seconds % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
