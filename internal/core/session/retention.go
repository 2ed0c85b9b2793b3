package session

import (
	"context"
	"log/slog"
	"time"
)

// Retention defaults.
const (
	DefaultRetentionWindow   = 30 * 24 * time.Hour
	DefaultRetentionInterval = 24 * time.Hour
)

// Retention periodically removes sessions older than Window.
type Retention struct {
	Store    *Store
	Window   time.Duration
	Interval time.Duration
	Now      func() time.Time
	Logger   *slog.Logger
}

// Sweep purges sessions completed before now minus the retention window.
func (retention *Retention) Sweep() (int, error) {
	now := time.Now
	if retention.Now != nil {
		now = retention.Now
	}
	window := retention.Window
	if window <= 0 {
		window = DefaultRetentionWindow
	}
	return retention.Store.PurgeOlderThan(now().Add(-window))
}

// Run sweeps once immediately and then on every interval until ctx is done.
func (retention *Retention) Run(ctx context.Context) {
	interval := retention.Interval
	if interval <= 0 {
		interval = DefaultRetentionInterval
	}
	retention.sweepAndLog()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			retention.sweepAndLog()
		}
	}
}

func (retention *Retention) sweepAndLog() {
	logger := retention.Logger
	if logger == nil {
		logger = slog.Default()
	}
	removed, err := retention.Sweep()
	if err != nil {
		logger.Warn("retention: sweep failed", slogKeyError, err)
		return
	}
	if removed > 0 {
		logger.Info("retention: purged old sessions", "removed", removed)
	}
}
