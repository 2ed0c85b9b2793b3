package main

import (
	"log/slog"

	"pomotray/internal/config"
	"pomotray/internal/core/model"
	"pomotray/internal/core/session"
	"pomotray/internal/storage"
)

type stores struct {
	settings *model.SettingsStore
	history  *session.Store
}

// openStores loads both records from the data directory. Unreadable records
// are logged and replaced by defaults so the timer stays usable.
func openStores(cfg config.Config, logger *slog.Logger) stores {
	kv := storage.NewFileKV(cfg.DataDir)

	settingsRecord := storage.NewSettingsRecord(kv)
	settings, err := settingsRecord.Load()
	if err != nil {
		logger.Warn("storage: load settings", slogKeyError, err)
	}

	history := session.NewStore(storage.NewHistoryRecord(kv, logger), session.WithLogger(logger))
	if err := history.Load(); err != nil {
		logger.Warn("storage: load history", slogKeyError, err)
	}

	return stores{
		settings: model.NewSettingsStore(settings, settingsRecord),
		history:  history,
	}
}

func newRetention(cfg config.Config, history *session.Store, logger *slog.Logger) *session.Retention {
	return &session.Retention{
		Store:    history,
		Window:   cfg.RetentionWindow,
		Interval: cfg.RetentionInterval,
		Logger:   logger,
	}
}
