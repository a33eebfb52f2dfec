package timer_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Tiliavir/pomo/internal/clock"
	"github.com/Tiliavir/pomo/internal/timer"
)

type fakeTicker struct {
	c       chan time.Time
	stopped chan struct{}
	once    sync.Once
}

func (f *fakeTicker) C() <-chan time.Time { return f.c }
func (f *fakeTicker) Stop()               { f.once.Do(func() { close(f.stopped) }) }

// tickerFactory records every ticker the timer asks for. Its tickers only
// fire when the test sends on them.
type tickerFactory struct {
	mu      sync.Mutex
	tickers []*fakeTicker
}

func (tf *tickerFactory) New(time.Duration) timer.Ticker {
	tf.mu.Lock()
	defer tf.mu.Unlock()
	ft := &fakeTicker{c: make(chan time.Time), stopped: make(chan struct{})}
	tf.tickers = append(tf.tickers, ft)
	return ft
}

func (tf *tickerFactory) count() int {
	tf.mu.Lock()
	defer tf.mu.Unlock()
	return len(tf.tickers)
}

func (tf *tickerFactory) last() *fakeTicker {
	tf.mu.Lock()
	defer tf.mu.Unlock()
	return tf.tickers[len(tf.tickers)-1]
}

var start = time.Date(2026, 2, 27, 9, 30, 0, 0, time.UTC)

func newTimer(t *testing.T, work, brk time.Duration) (*timer.Timer, *tickerFactory) {
	t.Helper()
	tf := &tickerFactory{}
	tm, err := timer.New(timer.Config{
		Work:      work,
		Break:     brk,
		Clock:     clock.Fixed(start),
		NewTicker: tf.New,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(tm.Close)
	return tm, tf
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestNewRejectsSubSecondDurations(t *testing.T) {
	if _, err := timer.New(timer.Config{Work: 0, Break: time.Minute}); err == nil {
		t.Error("expected error for zero work duration")
	}
	if _, err := timer.New(timer.Config{Work: time.Minute, Break: time.Millisecond}); err == nil {
		t.Error("expected error for sub-second break duration")
	}
}

func TestInitialState(t *testing.T) {
	tm, _ := newTimer(t, 25*time.Minute, 5*time.Minute)
	snap := tm.Snapshot()
	if snap.State != timer.Idle {
		t.Errorf("state = %s, want idle", snap.State)
	}
	if snap.Remaining != 1500 {
		t.Errorf("remaining = %d, want 1500", snap.Remaining)
	}
	if !snap.SessionStart.IsZero() {
		t.Errorf("session start = %v, want zero", snap.SessionStart)
	}
}

func TestStartRequiresCategory(t *testing.T) {
	tm, tf := newTimer(t, 25*time.Minute, 5*time.Minute)
	ok, err := tm.Start()
	if !errors.Is(err, timer.ErrNoCategory) || ok {
		t.Fatalf("Start() = %v, %v; want false, ErrNoCategory", ok, err)
	}
	if tm.Snapshot().State != timer.Idle {
		t.Error("state changed despite missing category")
	}
	if tf.count() != 0 {
		t.Error("ticker started despite missing category")
	}
}

func TestTicksDecrementByOneUntilZero(t *testing.T) {
	tm, _ := newTimer(t, 5*time.Second, 2*time.Second)
	tm.SelectCategory(1)
	if ok, err := tm.Start(); !ok || err != nil {
		t.Fatalf("Start() = %v, %v", ok, err)
	}
	snap := tm.Snapshot()
	if snap.State != timer.Running || !snap.SessionStart.Equal(start) {
		t.Fatalf("after start: %+v", snap)
	}

	prev := snap.Remaining
	for i := 0; i < 4; i++ {
		if _, fired := tm.Tick(); fired {
			t.Fatalf("tick %d fired early", i)
		}
		got := tm.Snapshot().Remaining
		if got != prev-1 {
			t.Fatalf("tick %d: remaining = %d, want %d", i, got, prev-1)
		}
		prev = got
	}

	ev, fired := tm.Tick()
	if !fired {
		t.Fatal("final tick did not fire")
	}
	if ev.Kind != timer.WorkCompleted || ev.CategoryID != 1 || !ev.StartedAt.Equal(start) || ev.Duration != 5*time.Second {
		t.Errorf("event = %+v", ev)
	}
	snap = tm.Snapshot()
	if snap.State != timer.Idle || snap.Remaining != 5 || !snap.SessionStart.IsZero() {
		t.Errorf("after completion: %+v", snap)
	}

	// Ticks after completion are no-ops.
	if _, fired := tm.Tick(); fired {
		t.Error("tick after completion fired")
	}
	if got := tm.Snapshot().Remaining; got != 5 {
		t.Errorf("remaining after stale tick = %d, want 5", got)
	}

	select {
	case got := <-tm.Events():
		if got.Kind != timer.WorkCompleted {
			t.Errorf("channel event = %s", got.Kind)
		}
	default:
		t.Error("completion was not delivered on Events()")
	}
}

func TestCategoryAtCompletionIsRecorded(t *testing.T) {
	tm, _ := newTimer(t, 2*time.Second, time.Second)
	tm.SelectCategory(1)
	if _, err := tm.Start(); err != nil {
		t.Fatal(err)
	}
	tm.Tick()
	tm.SelectCategory(7)
	if tm.Snapshot().State != timer.Running {
		t.Fatal("changing category interrupted the countdown")
	}
	ev, fired := tm.Tick()
	if !fired || ev.CategoryID != 7 {
		t.Errorf("event = %+v, want category 7", ev)
	}
}

func TestStartBreakFromIdleOnly(t *testing.T) {
	tm, _ := newTimer(t, 3*time.Second, 2*time.Second)
	tm.SelectCategory(1)
	if _, err := tm.Start(); err != nil {
		t.Fatal(err)
	}
	if tm.StartBreakFromIdle() {
		t.Fatal("StartBreakFromIdle replaced a running work interval")
	}
	if snap := tm.Snapshot(); snap.State != timer.Running || snap.SessionStart.IsZero() {
		t.Fatalf("work interval disturbed: %+v", snap)
	}

	tm.Reset()
	if !tm.StartBreakFromIdle() {
		t.Fatal("StartBreakFromIdle from idle refused")
	}
	if snap := tm.Snapshot(); snap.State != timer.Break || snap.Remaining != 2 {
		t.Errorf("after StartBreakFromIdle: %+v", snap)
	}
}

func TestBreakLifecycle(t *testing.T) {
	tm, _ := newTimer(t, 3*time.Second, 2*time.Second)
	if !tm.StartBreak() {
		t.Fatal("StartBreak from idle refused")
	}
	if tm.StartBreak() {
		t.Error("StartBreak while on break should be a no-op")
	}
	snap := tm.Snapshot()
	if snap.State != timer.Break || snap.Remaining != 2 {
		t.Fatalf("after StartBreak: %+v", snap)
	}

	if !tm.Pause() {
		t.Fatal("Pause during break refused")
	}
	if _, fired := tm.Tick(); fired || tm.Snapshot().Remaining != 2 {
		t.Error("paused break must not count down")
	}
	if !tm.Resume() {
		t.Fatal("Resume refused")
	}
	if tm.Snapshot().State != timer.Break {
		t.Errorf("resume from paused break = %s, want break", tm.Snapshot().State)
	}

	tm.Tick()
	ev, fired := tm.Tick()
	if !fired || ev.Kind != timer.BreakCompleted {
		t.Fatalf("break completion = %+v, %v", ev, fired)
	}
	if ev.CategoryID != 0 || !ev.StartedAt.IsZero() {
		t.Errorf("break event carries session data: %+v", ev)
	}
	snap = tm.Snapshot()
	if snap.State != timer.Idle || snap.Remaining != 3 {
		t.Errorf("after break: %+v", snap)
	}
}

func TestResetFromEveryState(t *testing.T) {
	setups := map[string]func(*timer.Timer){
		"idle":    func(*timer.Timer) {},
		"running": func(tm *timer.Timer) { _, _ = tm.Start() },
		"paused":  func(tm *timer.Timer) { _, _ = tm.Start(); tm.Tick(); tm.Pause() },
		"break":   func(tm *timer.Timer) { tm.StartBreak(); tm.Tick() },
	}
	for name, setup := range setups {
		t.Run(name, func(t *testing.T) {
			tm, _ := newTimer(t, 10*time.Second, 4*time.Second)
			tm.SelectCategory(1)
			setup(tm)
			if !tm.Reset() {
				t.Fatal("Reset refused")
			}
			snap := tm.Snapshot()
			if snap.State != timer.Idle || snap.Remaining != 10 || !snap.SessionStart.IsZero() {
				t.Errorf("after reset: %+v", snap)
			}
			select {
			case ev := <-tm.Events():
				t.Errorf("reset emitted %+v", ev)
			default:
			}
		})
	}
}

func TestTransitionTable(t *testing.T) {
	type command func(*timer.Timer) bool
	commands := map[string]command{
		"start":  func(tm *timer.Timer) bool { ok, _ := tm.Start(); return ok },
		"pause":  (*timer.Timer).Pause,
		"resume": (*timer.Timer).Resume,
		"break":  (*timer.Timer).StartBreak,
	}
	into := map[timer.State]func(*timer.Timer){
		timer.Idle:    func(*timer.Timer) {},
		timer.Running: func(tm *timer.Timer) { _, _ = tm.Start() },
		timer.Paused:  func(tm *timer.Timer) { _, _ = tm.Start(); tm.Pause() },
		timer.Break:   func(tm *timer.Timer) { tm.StartBreak() },
	}
	want := map[timer.State]map[string]timer.State{
		timer.Idle:    {"start": timer.Running, "break": timer.Break},
		timer.Running: {"pause": timer.Paused, "break": timer.Break},
		timer.Paused:  {"resume": timer.Running, "break": timer.Break},
		timer.Break:   {"pause": timer.Paused},
	}

	for from, setup := range into {
		for name, cmd := range commands {
			tm, _ := newTimer(t, 10*time.Second, 4*time.Second)
			tm.SelectCategory(1)
			setup(tm)
			before := tm.Snapshot()
			changed := cmd(tm)
			after := tm.Snapshot()

			to, allowed := want[from][name]
			if allowed {
				if !changed || after.State != to {
					t.Errorf("%s from %s: changed=%v state=%s, want %s", name, from, changed, after.State, to)
				}
				continue
			}
			if changed || after != before {
				t.Errorf("%s from %s should be a no-op: changed=%v %+v -> %+v", name, from, changed, before, after)
			}
		}
	}
}

func TestPauseResumeKeepsRemainingAndStart(t *testing.T) {
	tm, _ := newTimer(t, 10*time.Second, 4*time.Second)
	tm.SelectCategory(1)
	_, _ = tm.Start()
	tm.Tick()
	tm.Tick()
	tm.Pause()
	tm.Tick()
	if got := tm.Snapshot().Remaining; got != 8 {
		t.Fatalf("remaining while paused = %d, want 8", got)
	}
	tm.Resume()
	snap := tm.Snapshot()
	if snap.State != timer.Running || snap.Remaining != 8 || !snap.SessionStart.Equal(start) {
		t.Errorf("after resume: %+v", snap)
	}
}

func TestTickerLoopDrivesCompletion(t *testing.T) {
	tm, tf := newTimer(t, 3*time.Second, 2*time.Second)
	tm.SelectCategory(2)
	if _, err := tm.Start(); err != nil {
		t.Fatal(err)
	}
	if tf.count() != 1 {
		t.Fatalf("tickers = %d, want 1", tf.count())
	}
	ft := tf.last()
	for i := 0; i < 3; i++ {
		ft.c <- start
	}

	select {
	case ev := <-tm.Events():
		if ev.Kind != timer.WorkCompleted || ev.CategoryID != 2 {
			t.Errorf("event = %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no completion event")
	}
	<-ft.stopped
	if tm.Snapshot().State != timer.Idle {
		t.Errorf("state = %s, want idle", tm.Snapshot().State)
	}

	// The consumer starts the break: a fresh loop is created.
	tm.StartBreak()
	if tf.count() != 2 {
		t.Errorf("tickers after break = %d, want 2", tf.count())
	}
}

func TestStartIsIdempotentWhileLoopAlive(t *testing.T) {
	tm, tf := newTimer(t, 10*time.Second, 2*time.Second)
	tm.SelectCategory(1)
	_, _ = tm.Start()
	ok, err := tm.Start()
	if ok || err != nil {
		t.Errorf("second Start() = %v, %v; want no-op", ok, err)
	}
	// Pause and resume before the loop wakes keep the same loop.
	tm.Pause()
	tm.Resume()
	if tf.count() != 1 {
		t.Fatalf("tickers = %d, want 1", tf.count())
	}

	ft := tf.last()
	ft.c <- start
	ft.c <- start
	waitFor(t, "two decrements", func() bool { return tm.Snapshot().Remaining == 8 })
}

func TestLoopExitsWhenPausedAndRestartsOnResume(t *testing.T) {
	tm, tf := newTimer(t, 10*time.Second, 2*time.Second)
	tm.SelectCategory(1)
	_, _ = tm.Start()
	ft := tf.last()
	ft.c <- start
	waitFor(t, "first decrement", func() bool { return tm.Snapshot().Remaining == 9 })

	tm.Pause()
	ft.c <- start // loop wakes, sees Paused, exits without decrementing
	<-ft.stopped
	if got := tm.Snapshot().Remaining; got != 9 {
		t.Fatalf("remaining = %d after stale wake, want 9", got)
	}

	tm.Resume()
	if tf.count() != 2 {
		t.Fatalf("tickers after resume = %d, want 2", tf.count())
	}
	tf.last().c <- start
	waitFor(t, "decrement after resume", func() bool { return tm.Snapshot().Remaining == 8 })
}

func TestCloseStopsLoopAndClosesEvents(t *testing.T) {
	tf := &tickerFactory{}
	tm, err := timer.New(timer.Config{Work: time.Minute, Break: time.Minute, NewTicker: tf.New})
	if err != nil {
		t.Fatal(err)
	}
	tm.SelectCategory(1)
	_, _ = tm.Start()
	tm.Close()
	<-tf.last().stopped
	if _, open := <-tm.Events(); open {
		t.Error("events channel still open after Close")
	}
	if _, err := tm.Start(); !errors.Is(err, timer.ErrClosed) {
		t.Errorf("Start after Close err = %v, want ErrClosed", err)
	}
	tm.Close() // idempotent
}

func TestConcurrentCommandsAndTicks(t *testing.T) {
	tm, _ := newTimer(t, time.Hour, time.Minute)
	tm.SelectCategory(1)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_, _ = tm.Start()
				tm.Tick()
				tm.Pause()
				tm.Resume()
				if j%50 == 0 {
					tm.Reset()
				}
			}
		}()
	}
	wg.Wait()
	snap := tm.Snapshot()
	if snap.Remaining < 0 || snap.Remaining > 3600 {
		t.Errorf("remaining out of range: %d", snap.Remaining)
	}
}

func TestStateString(t *testing.T) {
	tests := map[timer.State]string{
		timer.Idle:     "idle",
		timer.Running:  "running",
		timer.Paused:   "paused",
		timer.Break:    "break",
		timer.State(9): "unknown",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(s), got, want)
		}
	}
}
