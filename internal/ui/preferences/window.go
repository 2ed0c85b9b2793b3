// Package preferences implements the timer settings window.
package preferences

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"pomotray/internal/core/model"
)

// Window handles the preferences UI.
type Window struct {
	window    fyne.Window
	settings  model.TimerSettings
	onSave    func(model.TimerSettings) error
	workEntry *widget.Entry
	restEntry *widget.Entry
	autoBreak *widget.Check
	autoStart *widget.Check
	darkMode  *widget.Check
}

// New creates a preferences window. onSave receives validated settings; an
// error it returns is shown to the user and keeps the window open.
func New(app fyne.App, settings model.TimerSettings, onSave func(model.TimerSettings) error) *Window {
	window := app.NewWindow("Timer Settings")

	prefs := &Window{
		window:    window,
		onSave:    onSave,
		workEntry: widget.NewEntry(),
		restEntry: widget.NewEntry(),
		autoBreak: widget.NewCheck("Start breaks automatically after work", nil),
		autoStart: widget.NewCheck("Start the next session automatically", nil),
		darkMode:  widget.NewCheck("Dark mode", nil),
	}

	form := container.NewVBox(
		widget.NewLabelWithStyle("Durations", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Work duration"), prefs.workEntry,
			widget.NewLabel(fmt.Sprintf("min (%d-%d)", model.MinWorkMinutes, model.MaxWorkMinutes))),
		container.NewHBox(widget.NewLabel("Break duration"), prefs.restEntry,
			widget.NewLabel(fmt.Sprintf("min (%d-%d)", model.MinBreakMinutes, model.MaxBreakMinutes))),
		widget.NewLabelWithStyle("Behavior", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.autoBreak,
		prefs.autoStart,
		prefs.darkMode,
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	saveButton.Importance = widget.HighImportance
	cancelButton := widget.NewButton("Cancel", func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(380, 300))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	prefs.UpdateSettings(settings)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings model.TimerSettings) {
	prefs.settings = settings
	prefs.setForm(FormFromSettings(settings))
}

func (prefs *Window) setForm(form Form) {
	prefs.workEntry.SetText(form.WorkMinutes)
	prefs.restEntry.SetText(form.BreakMinutes)
	prefs.autoBreak.SetChecked(form.AutoBreak)
	prefs.autoStart.SetChecked(form.AutoStart)
	prefs.darkMode.SetChecked(form.DarkMode)
}

func (prefs *Window) form() Form {
	return Form{
		WorkMinutes:  prefs.workEntry.Text,
		BreakMinutes: prefs.restEntry.Text,
		AutoBreak:    prefs.autoBreak.Checked,
		AutoStart:    prefs.autoStart.Checked,
		DarkMode:     prefs.darkMode.Checked,
	}
}

func (prefs *Window) handleSave() {
	settings, err := prefs.form().Settings()
	if err == nil && prefs.onSave != nil {
		err = prefs.onSave(settings)
	}
	if err != nil {
		dialog.ShowError(err, prefs.window)
		return
	}
	prefs.settings = settings
	prefs.window.Hide()
}
