// Package config loads the application configuration file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// AppName names the configuration and data directories.
	AppName        = "pomotray"
	configFileName = "config.yaml"

	envConfigPath = "POMOTRAY_CONFIG"
	envDataDir    = "POMOTRAY_DATA_DIR"
)

// Config holds application-level options. Timer durations live in the
// settings record instead.
type Config struct {
	DataDir              string
	TickInterval         time.Duration
	AutoStartDelay       time.Duration
	RetentionWindow      time.Duration
	RetentionInterval    time.Duration
	ChimeEnabled         bool
	NotificationsEnabled bool
	LogLevel             slog.Level
	MetricsAddress       string
}

type yamlConfig struct {
	DataDir              string `yaml:"data_dir"`
	TickIntervalMillis   int    `yaml:"tick_interval_ms"`
	AutoStartDelayMillis *int   `yaml:"auto_start_delay_ms"`
	RetentionDays        int    `yaml:"retention_days"`
	RetentionCheckHours  int    `yaml:"retention_check_hours"`
	ChimeEnabled         *bool  `yaml:"chime_enabled"`
	NotificationsEnabled *bool  `yaml:"notifications_enabled"`
	LogLevel             string `yaml:"log_level"`
	MetricsAddress       string `yaml:"metrics_address"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		TickInterval:         time.Second,
		AutoStartDelay:       time.Second,
		RetentionWindow:      30 * 24 * time.Hour,
		RetentionInterval:    24 * time.Hour,
		ChimeEnabled:         true,
		NotificationsEnabled: true,
		LogLevel:             slog.LevelInfo,
	}
}

// Load reads the configuration file. Defaults are returned alongside any
// error. The data directory falls back to the user config directory.
func Load() (Config, error) {
	cfg := Default()
	path, err := Path()
	if err != nil {
		return cfg, err
	}
	cfg, err = LoadFile(path)
	if cfg.DataDir == "" {
		dataDir, dirErr := defaultDataDir()
		if dirErr != nil {
			return cfg, errors.Join(err, dirErr)
		}
		cfg.DataDir = dataDir
	}
	return cfg, err
}

// LoadFile reads configuration from path. A missing file yields defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		applyEnv(&cfg)
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	var fileData yamlConfig
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		applyEnv(&cfg)
		return cfg, fmt.Errorf("parse config yaml: %w", err)
	}

	applyYamlConfig(&cfg, fileData)
	applyEnv(&cfg)
	return cfg, nil
}

// Path returns the configuration file path.
func Path() (string, error) {
	if path := getEnv(envConfigPath, ""); path != "" {
		return path, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, AppName, configFileName), nil
}

// NewLogger returns a text logger on stderr at level.
func NewLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func defaultDataDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, AppName), nil
}

func applyYamlConfig(cfg *Config, fileData yamlConfig) {
	if fileData.DataDir != "" {
		cfg.DataDir = fileData.DataDir
	}
	if fileData.TickIntervalMillis > 0 {
		cfg.TickInterval = time.Duration(fileData.TickIntervalMillis) * time.Millisecond
	}
	if fileData.AutoStartDelayMillis != nil && *fileData.AutoStartDelayMillis >= 0 {
		cfg.AutoStartDelay = time.Duration(*fileData.AutoStartDelayMillis) * time.Millisecond
	}
	if fileData.RetentionDays > 0 {
		cfg.RetentionWindow = time.Duration(fileData.RetentionDays) * 24 * time.Hour
	}
	if fileData.RetentionCheckHours > 0 {
		cfg.RetentionInterval = time.Duration(fileData.RetentionCheckHours) * time.Hour
	}
	if fileData.ChimeEnabled != nil {
		cfg.ChimeEnabled = *fileData.ChimeEnabled
	}
	if fileData.NotificationsEnabled != nil {
		cfg.NotificationsEnabled = *fileData.NotificationsEnabled
	}
	if level, ok := parseLevel(fileData.LogLevel); ok {
		cfg.LogLevel = level
	}
	cfg.MetricsAddress = strings.TrimSpace(fileData.MetricsAddress)
}

func applyEnv(cfg *Config) {
	cfg.DataDir = getEnv(envDataDir, cfg.DataDir)
}

func parseLevel(value string) (slog.Level, bool) {
	var level slog.Level
	if strings.TrimSpace(value) == "" {
		return level, false
	}
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return level, false
	}
	return level, true
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
