package timekeeper

import (
	"sync"
	"time"
)

// TickSource delivers ticks while the timer runs. Start must not call tick
// synchronously; the returned stop function must be safe to call more than
// once.
type TickSource interface {
	Start(tick func()) (stop func())
}

// IntervalTicker is a TickSource backed by time.Ticker.
type IntervalTicker struct {
	Interval time.Duration
}

// Start launches the ticking loop.
func (source IntervalTicker) Start(tick func()) func() {
	interval := source.Interval
	if interval <= 0 {
		interval = time.Second
	}

	stopCh := make(chan struct{})
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				tick()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stopCh)
		})
	}
}
