package model

import (
	"fmt"
	"sync"
)

// SettingsPersister saves settings durably.
type SettingsPersister interface {
	Save(settings TimerSettings) error
}

// SettingsStore owns the current TimerSettings. Readers always get a copy.
type SettingsStore struct {
	mu        sync.RWMutex
	settings  TimerSettings
	persister SettingsPersister
}

// NewSettingsStore creates a store seeded with initial. A nil persister keeps
// settings in memory only.
func NewSettingsStore(initial TimerSettings, persister SettingsPersister) *SettingsStore {
	return &SettingsStore{
		settings:  initial.Normalize(),
		persister: persister,
	}
}

// Get returns the current settings.
func (store *SettingsStore) Get() TimerSettings {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.settings
}

// Update validates and applies settings, then persists them. A persistence
// failure is returned but the new settings stay in effect.
func (store *SettingsStore) Update(settings TimerSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	store.mu.Lock()
	store.settings = settings
	persister := store.persister
	store.mu.Unlock()

	if persister == nil {
		return nil
	}
	if err := persister.Save(settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
