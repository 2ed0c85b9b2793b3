package timekeeper_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomotray/internal/core/model"
	"pomotray/internal/core/session"
	"pomotray/internal/core/timekeeper"
)

type manualTicks struct {
	mu     sync.Mutex
	ticks  []func()
	starts int
	stops  int
}

func (source *manualTicks) Start(tick func()) func() {
	source.mu.Lock()
	defer source.mu.Unlock()
	source.starts++
	source.ticks = append(source.ticks, tick)
	return func() {
		source.mu.Lock()
		defer source.mu.Unlock()
		source.stops++
	}
}

func (source *manualTicks) last() func() {
	source.mu.Lock()
	defer source.mu.Unlock()
	return source.ticks[len(source.ticks)-1]
}

type notification struct {
	title       string
	message     string
	destructive bool
}

type recordingNotifier struct {
	mu            sync.Mutex
	notifications []notification
	chimes        int
}

func (notifier *recordingNotifier) Notify(title, message string, destructive bool) {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	notifier.notifications = append(notifier.notifications, notification{title, message, destructive})
}

func (notifier *recordingNotifier) PlayChime() {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	notifier.chimes++
}

type failingBackend struct{}

func (failingBackend) Load() ([]session.Session, error) { return nil, nil }
func (failingBackend) Save([]session.Session) error    { return errors.New("quota exceeded") }
func (failingBackend) Delete() error                    { return nil }

type undeletableBackend struct{}

func (undeletableBackend) Load() ([]session.Session, error) { return nil, nil }
func (undeletableBackend) Save([]session.Session) error    { return nil }
func (undeletableBackend) Delete() error                    { return errors.New("read-only file system") }

type fixture struct {
	keeper   *timekeeper.TimeKeeper
	settings *model.SettingsStore
	history  *session.Store
	ticks    *manualTicks
	notifier *recordingNotifier
	now      time.Time
}

func newFixture(t *testing.T, settings model.TimerSettings, delay time.Duration) *fixture {
	t.Helper()
	f := &fixture{
		settings: model.NewSettingsStore(settings, nil),
		history:  session.NewStore(nil),
		ticks:    &manualTicks{},
		notifier: &recordingNotifier{},
		now:      time.Date(2026, time.June, 1, 10, 0, 0, 0, time.Local),
	}
	f.keeper = timekeeper.New(f.settings, f.history, timekeeper.Config{
		AutoStartDelay: delay,
		TickSource:     f.ticks,
		Notifier:       f.notifier,
		Now:            func() time.Time { return f.now },
	})
	t.Cleanup(f.keeper.Close)
	return f
}

func (f *fixture) tick(count int) {
	for i := 0; i < count; i++ {
		f.keeper.Tick()
	}
}

func settingsWith(autoBreak, autoStart bool) model.TimerSettings {
	return model.TimerSettings{WorkMinutes: 25, BreakMinutes: 5, AutoBreak: autoBreak, AutoStart: autoStart}
}

func TestNewStartsStoppedAtFullWorkPhase(t *testing.T) {
	f := newFixture(t, settingsWith(true, false), 0)

	snapshot := f.keeper.Snapshot()
	assert.Equal(t, timekeeper.PhaseWork, snapshot.Phase)
	assert.Equal(t, 1500, snapshot.RemainingSeconds)
	assert.False(t, snapshot.Running)
	assert.Zero(t, snapshot.Progress)
}

func TestTickDecrementsByOneWhileRunning(t *testing.T) {
	f := newFixture(t, settingsWith(true, false), 0)
	f.keeper.Start()

	for expected := 1499; expected >= 1490; expected-- {
		f.keeper.Tick()
		require.Equal(t, expected, f.keeper.Snapshot().RemainingSeconds)
	}
}

func TestTicksWhileStoppedAreDropped(t *testing.T) {
	f := newFixture(t, settingsWith(true, false), 0)
	f.keeper.Start()
	f.tick(10)
	f.keeper.Pause()

	before := f.keeper.Snapshot()
	f.tick(100)

	assert.Equal(t, before, f.keeper.Snapshot())
	assert.Zero(t, f.history.Len())
}

func TestStaleTickSourceIsIgnored(t *testing.T) {
	f := newFixture(t, settingsWith(true, false), 0)
	f.keeper.Start()
	inFlight := f.ticks.last()
	f.keeper.Pause()
	f.keeper.Start()

	inFlight()
	assert.Equal(t, 1500, f.keeper.Snapshot().RemainingSeconds)

	f.ticks.last()()
	assert.Equal(t, 1499, f.keeper.Snapshot().RemainingSeconds)
}

func TestStartIsNoOpWhileRunning(t *testing.T) {
	f := newFixture(t, settingsWith(true, false), 0)
	f.keeper.Start()
	f.keeper.Start()

	assert.Equal(t, 1, f.ticks.starts)
}

func TestPauseIsIdempotent(t *testing.T) {
	f := newFixture(t, settingsWith(true, false), 0)
	f.keeper.Start()
	f.tick(3)

	f.keeper.Pause()
	once := f.keeper.Snapshot()
	f.keeper.Pause()

	assert.Equal(t, once, f.keeper.Snapshot())
	assert.False(t, once.Running)
	assert.Equal(t, 1497, once.RemainingSeconds)
}

func TestToggle(t *testing.T) {
	f := newFixture(t, settingsWith(true, false), 0)

	f.keeper.Toggle()
	assert.True(t, f.keeper.Snapshot().Running)

	f.keeper.Toggle()
	assert.False(t, f.keeper.Snapshot().Running)
}

func TestResetFromAnyState(t *testing.T) {
	f := newFixture(t, settingsWith(true, false), 0)
	f.keeper.Start()
	f.tick(1500)
	require.Equal(t, timekeeper.PhaseBreak, f.keeper.Snapshot().Phase)
	f.keeper.Start()
	f.tick(10)

	f.keeper.Reset()

	snapshot := f.keeper.Snapshot()
	assert.Equal(t, timekeeper.PhaseWork, snapshot.Phase)
	assert.False(t, snapshot.Running)
	assert.Equal(t, 1500, snapshot.RemainingSeconds)
	assert.Equal(t, 1, f.history.Len(), "reset keeps history")
}

func TestWorkCompletesIntoStoppedBreak(t *testing.T) {
	f := newFixture(t, settingsWith(true, false), 0)
	f.keeper.Start()

	f.tick(1500)

	sessions := f.history.All()
	require.Len(t, sessions, 1)
	assert.Equal(t, session.KindWork, sessions[0].Kind)
	assert.Equal(t, 25, sessions[0].DurationMinutes)
	assert.Equal(t, f.now, sessions[0].CompletedAt)

	snapshot := f.keeper.Snapshot()
	assert.Equal(t, timekeeper.PhaseBreak, snapshot.Phase)
	assert.Equal(t, 300, snapshot.RemainingSeconds)
	assert.False(t, snapshot.Running)
}

func TestWorkCompletesIntoRunningBreakWithAutoStart(t *testing.T) {
	f := newFixture(t, settingsWith(true, true), 0)
	f.keeper.Start()

	f.tick(1500)

	snapshot := f.keeper.Snapshot()
	assert.Equal(t, timekeeper.PhaseBreak, snapshot.Phase)
	assert.True(t, snapshot.Running)

	f.keeper.Tick()
	assert.Equal(t, 299, f.keeper.Snapshot().RemainingSeconds)
}

func TestAutoStartWaitsForDelay(t *testing.T) {
	f := newFixture(t, settingsWith(true, true), 20*time.Millisecond)
	f.keeper.Start()

	f.tick(1500)

	snapshot := f.keeper.Snapshot()
	assert.False(t, snapshot.Running)
	assert.True(t, snapshot.ResumePending)
	require.Eventually(t, func() bool {
		return f.keeper.Snapshot().Running
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, timekeeper.PhaseBreak, f.keeper.Snapshot().Phase)
}

func TestPauseCancelsPendingAutoStart(t *testing.T) {
	f := newFixture(t, settingsWith(true, true), 30*time.Millisecond)
	f.keeper.Start()
	f.tick(1500)

	f.keeper.Pause()
	time.Sleep(80 * time.Millisecond)

	snapshot := f.keeper.Snapshot()
	assert.False(t, snapshot.Running)
	assert.False(t, snapshot.ResumePending)
}

func TestResetCancelsPendingAutoStart(t *testing.T) {
	f := newFixture(t, settingsWith(true, true), 30*time.Millisecond)
	f.keeper.Start()
	f.tick(1500)

	f.keeper.Reset()
	time.Sleep(80 * time.Millisecond)

	snapshot := f.keeper.Snapshot()
	assert.False(t, snapshot.Running)
	assert.Equal(t, timekeeper.PhaseWork, snapshot.Phase)
}

func TestWorkWithoutAutoBreakStaysInWork(t *testing.T) {
	f := newFixture(t, settingsWith(false, true), 0)
	f.keeper.Start()

	f.tick(1500)

	snapshot := f.keeper.Snapshot()
	assert.Equal(t, timekeeper.PhaseWork, snapshot.Phase)
	assert.Equal(t, 1500, snapshot.RemainingSeconds)
	assert.False(t, snapshot.Running)

	sessions := f.history.All()
	require.Len(t, sessions, 1)
	assert.Equal(t, session.KindWork, sessions[0].Kind)
}

func TestBreakCompletesIntoWork(t *testing.T) {
	f := newFixture(t, settingsWith(true, true), 0)
	f.keeper.Start()

	f.tick(1500 + 300)

	sessions := f.history.All()
	require.Len(t, sessions, 2)
	assert.Equal(t, session.KindBreak, sessions[1].Kind)
	assert.Equal(t, 5, sessions[1].DurationMinutes)

	snapshot := f.keeper.Snapshot()
	assert.Equal(t, timekeeper.PhaseWork, snapshot.Phase)
	assert.Equal(t, 1500, snapshot.RemainingSeconds)
	assert.True(t, snapshot.Running)
}

func TestUpdateSettingsWhileStoppedRewinds(t *testing.T) {
	f := newFixture(t, settingsWith(true, false), 0)

	updated := settingsWith(true, false)
	updated.WorkMinutes = 10
	require.NoError(t, f.keeper.UpdateSettings(updated))

	assert.Equal(t, 600, f.keeper.Snapshot().RemainingSeconds)
	assert.Equal(t, 10, f.settings.Get().WorkMinutes)
}

func TestUpdateSettingsKeepsPausedCountdownWhenDurationUnchanged(t *testing.T) {
	tests := []struct {
		name   string
		change func(*model.TimerSettings)
	}{
		{name: "dark mode", change: func(settings *model.TimerSettings) { settings.DarkMode = true }},
		{name: "auto start", change: func(settings *model.TimerSettings) { settings.AutoStart = true }},
		{name: "other phase duration", change: func(settings *model.TimerSettings) { settings.BreakMinutes = 15 }},
		{name: "no edits", change: func(*model.TimerSettings) {}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, settingsWith(true, false), 0)
			f.keeper.Start()
			f.tick(780)
			f.keeper.Pause()

			updated := settingsWith(true, false)
			tt.change(&updated)
			require.NoError(t, f.keeper.UpdateSettings(updated))

			snapshot := f.keeper.Snapshot()
			assert.Equal(t, 720, snapshot.RemainingSeconds)
			assert.Equal(t, timekeeper.PhaseWork, snapshot.Phase)
			assert.Equal(t, updated, f.settings.Get())
		})
	}
}

func TestUpdateSettingsWhileRunningIsDeferred(t *testing.T) {
	f := newFixture(t, settingsWith(false, false), 0)
	f.keeper.Start()
	f.tick(10)

	updated := settingsWith(false, false)
	updated.WorkMinutes = 10
	require.NoError(t, f.keeper.UpdateSettings(updated))
	assert.Equal(t, 1490, f.keeper.Snapshot().RemainingSeconds)

	f.tick(1490)

	sessions := f.history.All()
	require.Len(t, sessions, 1)
	assert.Equal(t, 25, sessions[0].DurationMinutes, "records the duration the countdown ran with")
	assert.Equal(t, 600, f.keeper.Snapshot().RemainingSeconds)
}

func TestUpdateSettingsRejectsInvalid(t *testing.T) {
	f := newFixture(t, settingsWith(true, false), 0)

	err := f.keeper.UpdateSettings(model.TimerSettings{WorkMinutes: 0, BreakMinutes: 5})
	require.ErrorIs(t, err, model.ErrInvalidSettings)
	assert.Equal(t, 1500, f.keeper.Snapshot().RemainingSeconds)
}

func TestProgress(t *testing.T) {
	f := newFixture(t, settingsWith(true, false), 0)
	f.keeper.Start()

	f.tick(750)
	assert.InDelta(t, 0.5, f.keeper.Snapshot().Progress, 1e-9)

	f.tick(750)
	assert.Zero(t, f.keeper.Snapshot().Progress, "new phase starts at zero")
}

func TestCompletionNotifies(t *testing.T) {
	f := newFixture(t, settingsWith(true, false), 0)
	f.keeper.Start()
	f.tick(1500)
	f.keeper.Start()
	f.tick(300)

	assert.Equal(t, 2, f.notifier.chimes)
	require.Len(t, f.notifier.notifications, 2)
	assert.Equal(t, notification{"Work Session Complete!", "25 minutes work session finished.", false}, f.notifier.notifications[0])
	assert.Equal(t, notification{"Break Complete!", "5 minutes break session finished.", false}, f.notifier.notifications[1])
}

func TestEventsAreDelivered(t *testing.T) {
	f := newFixture(t, model.TimerSettings{WorkMinutes: 1, BreakMinutes: 1, AutoBreak: true}, 0)
	events := f.keeper.Subscribe(256)
	f.keeper.Start()

	f.tick(60)

	var types []timekeeper.EventType
	var completed *session.Session
	for len(events) > 0 {
		event := <-events
		types = append(types, event.Type)
		if event.Type == timekeeper.EventSessionComplete {
			completed = event.Session
		}
	}
	assert.Equal(t, timekeeper.EventStateChange, types[0])
	assert.Contains(t, types, timekeeper.EventProgress)
	require.NotNil(t, completed)
	assert.Equal(t, session.KindWork, completed.Kind)
	assert.Equal(t, timekeeper.EventStateChange, types[len(types)-1])
}

func TestStorageFailureWarnsAndKeepsRunning(t *testing.T) {
	f := newFixture(t, settingsWith(true, true), 0)
	f.history = session.NewStore(failingBackend{})
	f.keeper = timekeeper.New(f.settings, f.history, timekeeper.Config{
		TickSource: f.ticks,
		Notifier:   f.notifier,
		Now:        func() time.Time { return f.now },
	})
	events := f.keeper.Subscribe(4096)
	f.keeper.Start()

	f.tick(1500)

	assert.Equal(t, 1, f.history.Len())
	assert.True(t, f.keeper.Snapshot().Running)

	warned := false
	for len(events) > 0 {
		if event := <-events; event.Type == timekeeper.EventWarning {
			warned = true
		}
	}
	assert.True(t, warned)
	require.Len(t, f.notifier.notifications, 2)
	assert.True(t, f.notifier.notifications[1].destructive)
	f.keeper.Close()
}

func TestClearHistoryKeepsLiveState(t *testing.T) {
	f := newFixture(t, settingsWith(true, false), 0)
	f.keeper.Start()
	f.tick(1500)
	f.keeper.Start()
	f.tick(5)

	require.NoError(t, f.keeper.ClearHistory())

	assert.Zero(t, f.history.Len())
	snapshot := f.keeper.Snapshot()
	assert.True(t, snapshot.Running)
	assert.Equal(t, 295, snapshot.RemainingSeconds)
	last := f.notifier.notifications[len(f.notifier.notifications)-1]
	assert.Equal(t, "Data Cleared", last.title)
	assert.True(t, last.destructive)
}

func TestClearHistoryFailureIsNotReportedAsCleared(t *testing.T) {
	f := newFixture(t, settingsWith(true, false), 0)
	f.history = session.NewStore(undeletableBackend{})
	f.keeper = timekeeper.New(f.settings, f.history, timekeeper.Config{
		TickSource: f.ticks,
		Notifier:   f.notifier,
		Now:        func() time.Time { return f.now },
	})
	defer f.keeper.Close()

	err := f.keeper.ClearHistory()

	require.Error(t, err)
	require.Len(t, f.notifier.notifications, 1)
	assert.Equal(t, "History not cleared", f.notifier.notifications[0].title)
	assert.True(t, f.notifier.notifications[0].destructive)
}

func TestCloseClosesSubscribers(t *testing.T) {
	f := newFixture(t, settingsWith(true, false), 0)
	events := f.keeper.Subscribe(1)

	f.keeper.Close()
	f.keeper.Close()

	_, ok := <-events
	assert.False(t, ok)
	f.keeper.Start()
	assert.False(t, f.keeper.Snapshot().Running)
}
