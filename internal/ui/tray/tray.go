package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"

	"pomotray/internal/core/timekeeper"
	"pomotray/internal/ui/timerview"
)

const menuTitle = "Pomodoro"

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnToggle       func()
	OnReset        func()
	OnShowTimer    func()
	OnStatistics   func()
	OnPreferences  func()
	OnExport       func(format string)
	OnClearHistory func()
	OnQuit         func()
}

// Manager handles system tray state.
type Manager struct {
	app        desktop.App
	menu       *fyne.Menu
	statusItem *fyne.MenuItem
	toggleItem *fyne.MenuItem
	callbacks  Callbacks
	running    bool
}

// New creates a tray manager with the provided callbacks. A nil app keeps
// the menu in memory only.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("Focus Time 25:00", nil)
	manager.statusItem.Disabled = true

	manager.toggleItem = fyne.NewMenuItem("Start", call(callbacks.OnToggle))

	reset := fyne.NewMenuItem("Reset", call(callbacks.OnReset))
	reset.Icon = theme.MediaReplayIcon()

	export := fyne.NewMenuItem("Export", nil)
	export.ChildMenu = fyne.NewMenu("",
		fyne.NewMenuItem("Sessions (CSV)", manager.export("csv")),
		fyne.NewMenuItem("Daily summary (CSV)", manager.export("summary")),
		fyne.NewMenuItem("History (JSON)", manager.export("json")),
	)

	clearItem := fyne.NewMenuItem("Clear history...", call(callbacks.OnClearHistory))
	clearItem.Icon = theme.DeleteIcon()

	quit := fyne.NewMenuItem("Quit", call(callbacks.OnQuit))
	quit.IsQuit = true

	manager.menu = fyne.NewMenu(menuTitle,
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		manager.toggleItem,
		reset,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Timer", call(callbacks.OnShowTimer)),
		fyne.NewMenuItem("Statistics", call(callbacks.OnStatistics)),
		fyne.NewMenuItem("Settings", call(callbacks.OnPreferences)),
		export,
		clearItem,
		fyne.NewMenuItemSeparator(),
		quit,
	)
	manager.setRunning(false)
	manager.refreshMenu()

	return manager
}

// Menu returns the tray menu.
func (manager *Manager) Menu() *fyne.Menu {
	return manager.menu
}

// Update reflects a TimeKeeper snapshot in the menu and the tray icon. It must
// run on the UI goroutine.
func (manager *Manager) Update(snapshot timekeeper.Snapshot) {
	manager.statusItem.Label = StatusLabel(snapshot)
	if snapshot.Running != manager.running {
		manager.setRunning(snapshot.Running)
	}
	manager.refreshMenu()
}

func (manager *Manager) setRunning(running bool) {
	manager.running = running
	icon := theme.MediaPlayIcon()
	manager.toggleItem.Label = "Start"
	if running {
		icon = theme.MediaPauseIcon()
		manager.toggleItem.Label = "Pause"
	}
	manager.toggleItem.Icon = icon
	if manager.app != nil {
		manager.app.SetSystemTrayIcon(trayIcon(running))
	}
}

// StatusLabel renders the disabled status line at the top of the menu.
func StatusLabel(snapshot timekeeper.Snapshot) string {
	label := fmt.Sprintf("%s %s", timerview.PhaseTitle(snapshot.Phase), timerview.FormatRemaining(snapshot.Remaining()))
	switch {
	case snapshot.ResumePending:
		return label + " (starting...)"
	case !snapshot.Running:
		return label + " (paused)"
	default:
		return label
	}
}

func (manager *Manager) export(format string) func() {
	return func() {
		if manager.callbacks.OnExport != nil {
			manager.callbacks.OnExport(format)
		}
	}
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.menu)
	}
}

func trayIcon(running bool) fyne.Resource {
	if running {
		return theme.NewPrimaryThemedResource(theme.MediaRecordIcon())
	}
	return theme.MediaPauseIcon()
}

func call(handler func()) func() {
	return func() {
		if handler != nil {
			handler()
		}
	}
}
