package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"pomotray/internal/core/model"
)

// SettingsKey is the key of the settings record.
const SettingsKey = "settings"

type settingsDocument struct {
	WorkDuration  *int  `json:"workDuration,omitempty"`
	BreakDuration *int  `json:"breakDuration,omitempty"`
	AutoBreak     *bool `json:"autoBreak,omitempty"`
	AutoStart     *bool `json:"autoStart,omitempty"`
	DarkMode      *bool `json:"darkMode,omitempty"`
}

// SettingsRecord reads and writes timer settings as a JSON record.
type SettingsRecord struct {
	kv KV
}

// NewSettingsRecord wraps kv.
func NewSettingsRecord(kv KV) *SettingsRecord {
	return &SettingsRecord{kv: kv}
}

// Load reads the saved settings. Defaults are always returned alongside any
// error, so callers can log the error and carry on.
func (record *SettingsRecord) Load() (model.TimerSettings, error) {
	settings := model.DefaultTimerSettings()

	raw, err := record.kv.Get(SettingsKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return settings, nil
		}
		return settings, err
	}

	var document settingsDocument
	if err := json.Unmarshal(raw, &document); err != nil {
		return settings, fmt.Errorf("parse settings json: %w", err)
	}

	applySettingsDocument(&settings, document)
	return settings.Normalize(), nil
}

// Save writes settings.
func (record *SettingsRecord) Save(settings model.TimerSettings) error {
	document := settingsDocument{
		WorkDuration:  &settings.WorkMinutes,
		BreakDuration: &settings.BreakMinutes,
		AutoBreak:     &settings.AutoBreak,
		AutoStart:     &settings.AutoStart,
		DarkMode:      &settings.DarkMode,
	}
	serialized, err := json.Marshal(document)
	if err != nil {
		return fmt.Errorf("marshal settings json: %w", err)
	}
	return record.kv.Set(SettingsKey, serialized)
}

func applySettingsDocument(settings *model.TimerSettings, document settingsDocument) {
	if document.WorkDuration != nil && *document.WorkDuration > 0 {
		settings.WorkMinutes = *document.WorkDuration
	}
	if document.BreakDuration != nil && *document.BreakDuration > 0 {
		settings.BreakMinutes = *document.BreakDuration
	}
	if document.AutoBreak != nil {
		settings.AutoBreak = *document.AutoBreak
	}
	if document.AutoStart != nil {
		settings.AutoStart = *document.AutoStart
	}
	if document.DarkMode != nil {
		settings.DarkMode = *document.DarkMode
	}
}
