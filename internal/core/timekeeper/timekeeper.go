package timekeeper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"pomotray/internal/core/model"
	"pomotray/internal/core/session"
)

const slogKeyError = "error"

// Notifier delivers completion cues. Calls are fire-and-forget.
type Notifier interface {
	Notify(title, message string, destructive bool)
	PlayChime()
}

// SettingsProvider owns the timer settings. The TimeKeeper re-reads them at
// every phase boundary.
type SettingsProvider interface {
	Get() model.TimerSettings
	Update(settings model.TimerSettings) error
}

// History records completed sessions.
type History interface {
	Append(completed session.Session) error
	Clear() error
}

// Config contains runtime options for TimeKeeper.
type Config struct {
	// TickInterval is used by the default IntervalTicker.
	TickInterval time.Duration
	// AutoStartDelay separates a completion cue from the automatic start of
	// the next phase. Zero starts the next phase immediately.
	AutoStartDelay time.Duration

	TickSource TickSource
	Notifier   Notifier
	Now        func() time.Time
	Logger     *slog.Logger
}

// TimeKeeper is the pomodoro state machine. All methods are safe for
// concurrent use; a single mutex serializes every state change.
type TimeKeeper struct {
	mu       sync.Mutex
	options  Config
	settings SettingsProvider
	history  History

	phase        Phase
	remaining    int
	phaseMinutes int
	running      bool

	generation    uint64
	stopTicks     func()
	pendingResume *time.Timer
	resumeSeq     uint64

	events []chan Event
	closed bool
}

type completion struct {
	title   string
	message string
	warning string
}

// New creates a stopped TimeKeeper at the start of a work phase.
func New(settings SettingsProvider, history History, options Config) *TimeKeeper {
	if options.TickSource == nil {
		options.TickSource = IntervalTicker{Interval: options.TickInterval}
	}
	if options.Notifier == nil {
		options.Notifier = nopNotifier{}
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.AutoStartDelay < 0 {
		options.AutoStartDelay = 0
	}

	keeper := &TimeKeeper{
		options:  options,
		settings: settings,
		history:  history,
	}
	keeper.armLocked(PhaseWork, settings.Get())
	return keeper
}

// Subscribe registers a new observer channel. Slow observers miss events
// rather than block the timer.
func (keeper *TimeKeeper) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed {
		close(ch)
		return ch
	}
	keeper.events = append(keeper.events, ch)
	return ch
}

// Start begins counting down. It is a no-op while already running.
func (keeper *TimeKeeper) Start() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.running || keeper.closed {
		return
	}
	keeper.cancelResumeLocked()
	keeper.startLocked()
	keeper.emitLocked(keeper.eventLocked(EventStateChange))
}

// Pause freezes the countdown and cancels a pending automatic start.
func (keeper *TimeKeeper) Pause() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	hadPending := keeper.cancelResumeLocked()
	if !keeper.running && !hadPending {
		return
	}
	keeper.stopLocked()
	keeper.emitLocked(keeper.eventLocked(EventStateChange))
}

// Toggle pauses a running timer and starts a stopped one.
func (keeper *TimeKeeper) Toggle() {
	keeper.mu.Lock()
	running := keeper.running
	keeper.mu.Unlock()

	if running {
		keeper.Pause()
		return
	}
	keeper.Start()
}

// Reset stops the timer and rewinds to a full work phase. History is kept.
func (keeper *TimeKeeper) Reset() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed {
		return
	}
	keeper.cancelResumeLocked()
	keeper.stopLocked()
	keeper.armLocked(PhaseWork, keeper.settings.Get())
	keeper.emitLocked(keeper.eventLocked(EventStateChange))
}

// Tick advances the countdown by one second. Ticks delivered while stopped are
// dropped.
func (keeper *TimeKeeper) Tick() {
	keeper.advance(0, false)
}

// UpdateSettings applies new settings. When the duration of the current phase
// changes, a stopped timer is rewound to it; a running countdown keeps its
// target and the change takes effect at the next phase boundary. Other changes
// leave a paused countdown where it is.
func (keeper *TimeKeeper) UpdateSettings(settings model.TimerSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	keeper.mu.Lock()
	defer keeper.mu.Unlock()

	previous := keeper.settings.Get()
	err := keeper.settings.Update(settings)
	if errors.Is(err, model.ErrInvalidSettings) {
		return err
	}
	current := keeper.settings.Get()
	if !keeper.running && phaseDuration(keeper.phase, previous) != phaseDuration(keeper.phase, current) {
		keeper.armLocked(keeper.phase, current)
		keeper.emitLocked(keeper.eventLocked(EventStateChange))
	}
	return err
}

// ClearHistory erases all recorded sessions. Callers are expected to have
// confirmed the request with the user.
func (keeper *TimeKeeper) ClearHistory() error {
	keeper.mu.Lock()
	err := keeper.history.Clear()
	keeper.emitLocked(keeper.eventLocked(EventHistoryCleared))
	keeper.mu.Unlock()

	if err != nil {
		keeper.options.Notifier.Notify("History not cleared", "Saved session data could not be deleted and will return on the next launch.", true)
		return fmt.Errorf("clear history: %w", err)
	}
	keeper.options.Notifier.Notify("Data Cleared", "All session data has been permanently deleted.", true)
	return nil
}

// Snapshot returns the current state with a freshly computed progress value.
func (keeper *TimeKeeper) Snapshot() Snapshot {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return Snapshot{
		Phase:            keeper.phase,
		RemainingSeconds: keeper.remaining,
		Running:          keeper.running,
		PhaseMinutes:     keeper.phaseMinutes,
		Progress:         keeper.progressLocked(),
		ResumePending:    keeper.pendingResume != nil,
	}
}

// Run blocks until ctx is done and then closes the TimeKeeper.
func (keeper *TimeKeeper) Run(ctx context.Context) {
	<-ctx.Done()
	keeper.Close()
}

// Close stops ticking and closes every observer channel.
func (keeper *TimeKeeper) Close() {
	keeper.mu.Lock()
	if keeper.closed {
		keeper.mu.Unlock()
		return
	}
	keeper.closed = true
	keeper.cancelResumeLocked()
	keeper.stopLocked()
	events := keeper.events
	keeper.events = nil
	keeper.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (keeper *TimeKeeper) advance(generation uint64, fromSource bool) {
	keeper.mu.Lock()
	if !keeper.running || (fromSource && generation != keeper.generation) {
		keeper.mu.Unlock()
		return
	}

	if keeper.remaining > 0 {
		keeper.remaining--
	}
	if keeper.remaining > 0 {
		keeper.emitLocked(keeper.eventLocked(EventProgress))
		keeper.mu.Unlock()
		return
	}

	done := keeper.completeLocked()
	keeper.mu.Unlock()

	keeper.options.Notifier.PlayChime()
	keeper.options.Notifier.Notify(done.title, done.message, false)
	if done.warning != "" {
		keeper.options.Notifier.Notify("History not saved", done.warning, true)
	}
}

// completeLocked records the finished phase and moves to the next one.
func (keeper *TimeKeeper) completeLocked() completion {
	now := keeper.options.Now()
	finished := keeper.phase
	keeper.stopLocked()

	completed := session.Session{
		Kind:            finished.Kind(),
		DurationMinutes: keeper.phaseMinutes,
		CompletedAt:     now,
	}
	done := completion{
		title:   "Work Session Complete!",
		message: fmt.Sprintf("%d minutes work session finished.", completed.DurationMinutes),
	}
	if finished == PhaseBreak {
		done.title = "Break Complete!"
		done.message = fmt.Sprintf("%d minutes break session finished.", completed.DurationMinutes)
	}

	if err := keeper.history.Append(completed); err != nil {
		keeper.options.Logger.Warn("timekeeper: record session", slogKeyError, err)
		if errors.Is(err, session.ErrDegraded) {
			done.warning = "Session history could not be saved. It is kept in memory until the app exits."
			warning := keeper.eventLocked(EventWarning)
			warning.Message = done.warning
			keeper.emitLocked(warning)
		}
	}
	completedEvent := keeper.eventLocked(EventSessionComplete)
	completedEvent.Session = &completed
	completedEvent.Message = done.message
	keeper.emitLocked(completedEvent)

	settings := keeper.settings.Get()
	resume := false
	switch {
	case finished == PhaseWork && settings.AutoBreak:
		keeper.armLocked(PhaseBreak, settings)
		resume = settings.AutoStart
	case finished == PhaseWork:
		keeper.armLocked(PhaseWork, settings)
	default:
		keeper.armLocked(PhaseWork, settings)
		resume = settings.AutoStart
	}

	if resume {
		keeper.scheduleResumeLocked()
	}
	keeper.emitLocked(keeper.eventLocked(EventStateChange))
	return done
}

func (keeper *TimeKeeper) scheduleResumeLocked() {
	if keeper.options.AutoStartDelay <= 0 {
		keeper.startLocked()
		return
	}
	keeper.resumeSeq++
	token := keeper.resumeSeq
	keeper.pendingResume = time.AfterFunc(keeper.options.AutoStartDelay, func() {
		keeper.resume(token)
	})
}

func (keeper *TimeKeeper) resume(token uint64) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.pendingResume == nil || keeper.resumeSeq != token || keeper.running || keeper.closed {
		return
	}
	keeper.pendingResume = nil
	keeper.startLocked()
	keeper.emitLocked(keeper.eventLocked(EventStateChange))
}

func (keeper *TimeKeeper) cancelResumeLocked() bool {
	if keeper.pendingResume == nil {
		return false
	}
	keeper.pendingResume.Stop()
	keeper.pendingResume = nil
	keeper.resumeSeq++
	return true
}

func (keeper *TimeKeeper) startLocked() {
	keeper.running = true
	keeper.generation++
	generation := keeper.generation
	keeper.stopTicks = keeper.options.TickSource.Start(func() {
		keeper.advance(generation, true)
	})
}

func (keeper *TimeKeeper) stopLocked() {
	keeper.running = false
	keeper.generation++
	if keeper.stopTicks != nil {
		keeper.stopTicks()
		keeper.stopTicks = nil
	}
}

func (keeper *TimeKeeper) armLocked(phase Phase, settings model.TimerSettings) {
	duration := phaseDuration(phase, settings)
	keeper.phase = phase
	keeper.phaseMinutes = int(duration / time.Minute)
	keeper.remaining = int(duration / time.Second)
}

func phaseDuration(phase Phase, settings model.TimerSettings) time.Duration {
	if phase == PhaseBreak {
		return settings.BreakDuration()
	}
	return settings.WorkDuration()
}

func (keeper *TimeKeeper) progressLocked() float64 {
	total := keeper.phaseMinutes * 60
	if total <= 0 {
		return 0
	}
	progress := 1 - float64(keeper.remaining)/float64(total)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

func (keeper *TimeKeeper) eventLocked(eventType EventType) Event {
	return Event{
		Type:      eventType,
		Phase:     keeper.phase,
		Running:   keeper.running,
		Remaining: time.Duration(keeper.remaining) * time.Second,
		Progress:  keeper.progressLocked(),
		At:        keeper.options.Now(),
	}
}

func (keeper *TimeKeeper) emitLocked(event Event) {
	for _, ch := range keeper.events {
		select {
		case ch <- event:
		default:
		}
	}
}

type nopNotifier struct{}

func (nopNotifier) Notify(string, string, bool) {}

func (nopNotifier) PlayChime() {}
