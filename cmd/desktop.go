package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	fynetheme "fyne.io/fyne/v2/theme"

	"pomotray/internal/config"
	"pomotray/internal/core/model"
	"pomotray/internal/core/timekeeper"
	"pomotray/internal/export"
	"pomotray/internal/notify"
	"pomotray/internal/observability"
	"pomotray/internal/platform"
	"pomotray/internal/ui/preferences"
	"pomotray/internal/ui/stats"
	"pomotray/internal/ui/theme"
	"pomotray/internal/ui/timerview"
	"pomotray/internal/ui/tray"
)

const appID = "dev.pomotray.app"

func runDesktop(cfg config.Config, logger *slog.Logger) error {
	guard, err := platform.AcquireSingleInstance(instanceName)
	if errors.Is(err, platform.ErrAlreadyRunning) {
		if err := platform.ActivateRunning(instanceName); err != nil {
			return fmt.Errorf("activate running instance: %w", err)
		}
		logger.Info("single instance: brought the running instance forward")
		return nil
	}
	if err != nil {
		return fmt.Errorf("acquire single instance: %w", err)
	}
	defer func() {
		_ = guard.Release()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := openStores(cfg, logger)

	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(fynetheme.NewPrimaryThemedResource(fynetheme.MediaRecordIcon()))
	theme.Apply(fyneApp, st.settings.Get().DarkMode)

	var chime *notify.Chime
	if cfg.ChimeEnabled {
		chime = notify.NewChime(platform.NewSoundPlayer(), cfg.DataDir, logger)
	}
	notifier := notify.NewDesktop(fyneApp, notify.DesktopConfig{
		Chime:         chime,
		Notifications: cfg.NotificationsEnabled,
		Logger:        logger,
	})

	keeper := timekeeper.New(st.settings, st.history, timekeeper.Config{
		TickInterval:   cfg.TickInterval,
		AutoStartDelay: cfg.AutoStartDelay,
		Notifier:       notifier,
		Logger:         logger,
	})
	defer keeper.Close()

	go newRetention(cfg, st.history, logger).Run(ctx)
	go keeper.Run(ctx)
	go observability.Observe(keeper.Subscribe(32))
	if cfg.MetricsAddress != "" {
		go observability.Serve(ctx, observability.ServerConfig{
			Address:      cfg.MetricsAddress,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		}, logger)
	}

	timerWindow := timerview.New(fyneApp, timerview.Callbacks{
		OnToggle: keeper.Toggle,
		OnReset:  keeper.Reset,
	})
	parent := timerWindow.Window()
	statsWindow := stats.New(fyneApp)

	prefsWindow := preferences.New(fyneApp, st.settings.Get(), func(updated model.TimerSettings) error {
		if err := saveSettings(keeper, notifier, logger, updated); err != nil {
			return err
		}
		theme.Apply(fyneApp, updated.DarkMode)
		return nil
	})

	refreshStats := func() {
		report := stats.NewReport(st.history.All(), time.Now())
		statsWindow.Update(report)
		timerWindow.SetCycles(report.Summary.Today.Cycles)
	}

	exportHistory := func(format string) {
		timerWindow.Show()
		save := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, parent)
				return
			}
			if writer == nil {
				return
			}
			defer writer.Close()
			if err := export.Write(writer, format, st.history.All()); err != nil {
				logger.Warn("export: write history", slogKeyError, err, "format", format)
				dialog.ShowError(err, parent)
				return
			}
			notifier.Notify("Export Complete", "Saved "+writer.URI().Name(), false)
		}, parent)
		save.SetFileName(export.FileName(format, time.Now()))
		save.Show()
	}

	clearHistory := func() {
		timerWindow.Show()
		dialog.ShowConfirm("Clear History", "Delete all session history? This cannot be undone.", func(confirmed bool) {
			if !confirmed {
				return
			}
			if err := keeper.ClearHistory(); err != nil {
				logger.Warn("history: clear", slogKeyError, err)
			}
		}, parent)
	}

	quit := func() {
		keeper.Close()
		cancel()
		fyneApp.Quit()
	}

	trayManager := tray.New(trayApp(fyneApp, logger), tray.Callbacks{
		OnToggle:       keeper.Toggle,
		OnReset:        keeper.Reset,
		OnShowTimer:    timerWindow.Show,
		OnStatistics:   func() { refreshStats(); statsWindow.Show() },
		OnPreferences:  func() { prefsWindow.UpdateSettings(st.settings.Get()); prefsWindow.Show() },
		OnExport:       exportHistory,
		OnClearHistory: clearHistory,
		OnQuit:         quit,
	})

	refresh := func() {
		snapshot := keeper.Snapshot()
		timerWindow.Update(snapshot)
		fyne.Do(func() {
			trayManager.Update(snapshot)
		})
	}

	events := keeper.Subscribe(16)
	go func() {
		for event := range events {
			switch event.Type {
			case timekeeper.EventSessionComplete, timekeeper.EventHistoryCleared:
				refreshStats()
			}
			refresh()
		}
	}()

	go guard.Serve(func() {
		fyne.Do(timerWindow.Show)
	})

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		desktopApp.SetSystemTrayWindow(parent)
	} else {
		parent.SetMaster()
	}

	refresh()
	refreshStats()
	timerWindow.Show()
	fyneApp.Run()
	return nil
}

// trayApp returns fyneApp as a desktop.App, or nil when the driver has no tray.
func trayApp(fyneApp fyne.App, logger *slog.Logger) desktop.App {
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		logger.Warn("tray: system tray unsupported on this platform")
		return nil
	}
	return desktopApp
}
