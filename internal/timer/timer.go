package timer

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/Tiliavir/pomo/internal/clock"
)

var (
	// ErrNoCategory is returned by Start when no category is selected.
	ErrNoCategory = errors.New("no category selected")
	// ErrClosed is returned by commands issued after Close.
	ErrClosed = errors.New("timer is closed")
)

// Config holds the process-wide interval lengths and collaborators.
type Config struct {
	Work      time.Duration
	Break     time.Duration
	Clock     clock.Clock
	NewTicker TickerFunc
	Logger    hclog.Logger
}

// Timer is the in-memory timer run. One instance is constructed at process
// start and closed at shutdown; commands and the ticker goroutine share it
// under mu.
type Timer struct {
	mu           sync.Mutex
	work         int
	brk          int
	state        State
	pausedFrom   State
	remaining    int
	sessionStart time.Time
	categoryID   int64
	looping      bool
	closed       bool

	clock     clock.Clock
	newTicker TickerFunc
	logger    hclog.Logger

	events       chan Event
	emitMu       sync.RWMutex
	eventsClosed bool
	done         chan struct{}
	wg           sync.WaitGroup
}

// New returns an idle timer preloaded with the work duration.
func New(cfg Config) (*Timer, error) {
	if cfg.Work < time.Second || cfg.Break < time.Second {
		return nil, fmt.Errorf("work and break durations must be at least one second (got %s / %s)", cfg.Work, cfg.Break)
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.System{}
	}
	if cfg.NewTicker == nil {
		cfg.NewTicker = NewSystemTicker
	}
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}
	work := int(cfg.Work / time.Second)
	return &Timer{
		work:      work,
		brk:       int(cfg.Break / time.Second),
		state:     Idle,
		remaining: work,
		clock:     cfg.Clock,
		newTicker: cfg.NewTicker,
		logger:    cfg.Logger,
		events:    make(chan Event, 8),
		done:      make(chan struct{}),
	}, nil
}

// Events delivers completion events. It is closed by Close.
func (t *Timer) Events() <-chan Event {
	return t.events
}

// Snapshot returns a consistent copy of the run.
func (t *Timer) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot{
		State:        t.state,
		Remaining:    t.remaining,
		SessionStart: t.sessionStart,
		CategoryID:   t.categoryID,
		Work:         time.Duration(t.work) * time.Second,
		Break:        time.Duration(t.brk) * time.Second,
	}
}

// SelectCategory changes the category recorded at the next work completion.
// It never interrupts the countdown.
func (t *Timer) SelectCategory(id int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.categoryID = id
}

// Start begins a work interval from Idle.
func (t *Timer) Start() (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return false, ErrClosed
	}
	if t.state != Idle {
		return false, nil
	}
	if t.categoryID == 0 {
		return false, ErrNoCategory
	}
	t.state = Running
	t.remaining = t.work
	t.sessionStart = t.clock.Now()
	t.ensureLoopLocked()
	t.logger.Debug("work started", "category_id", t.categoryID, "seconds", t.work)
	return true, nil
}

// Pause freezes a running work interval or break.
func (t *Timer) Pause() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || !t.state.Live() {
		return false
	}
	t.pausedFrom = t.state
	t.state = Paused
	return true
}

// Resume continues the interval that was paused, work or break.
func (t *Timer) Resume() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || t.state != Paused {
		return false
	}
	t.state = t.pausedFrom
	if t.state != Break {
		t.state = Running
	}
	t.ensureLoopLocked()
	return true
}

// StartBreak begins a break from any state but Break. A work interval in
// progress is abandoned without recording.
func (t *Timer) StartBreak() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || t.state == Break {
		return false
	}
	t.startBreakLocked()
	return true
}

// StartBreakFromIdle begins a break only when nothing else is in progress.
// A work interval started after the last completion is left running.
func (t *Timer) StartBreakFromIdle() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || t.state != Idle {
		return false
	}
	t.startBreakLocked()
	return true
}

func (t *Timer) startBreakLocked() {
	t.state = Break
	t.remaining = t.brk
	t.sessionStart = time.Time{}
	t.ensureLoopLocked()
	t.logger.Debug("break started", "seconds", t.brk)
}

// Reset abandons whatever is in progress and returns to Idle. Nothing is
// emitted or recorded.
func (t *Timer) Reset() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return false
	}
	t.resetLocked()
	return true
}

// Tick delivers one second to the run. It is what the ticker goroutine
// calls; ticks outside Running and Break are no-ops.
func (t *Timer) Tick() (Event, bool) {
	ev, fired, _ := t.advance(false)
	if fired {
		t.emit(ev)
	}
	return ev, fired
}

// Close stops the ticker goroutine and closes the event channel.
func (t *Timer) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	close(t.done)
	t.mu.Unlock()

	t.wg.Wait()

	t.emitMu.Lock()
	t.eventsClosed = true
	close(t.events)
	t.emitMu.Unlock()
}

func (t *Timer) resetLocked() {
	t.state = Idle
	t.pausedFrom = Idle
	t.remaining = t.work
	t.sessionStart = time.Time{}
}

// advance applies one tick. live reports whether a ticker loop should keep
// running afterwards.
func (t *Timer) advance(fromLoop bool) (ev Event, fired bool, live bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || !t.state.Live() || t.remaining <= 0 {
		if fromLoop {
			t.looping = false
		}
		return Event{}, false, false
	}

	t.remaining--
	if t.remaining > 0 {
		return Event{}, false, true
	}

	now := t.clock.Now()
	switch t.state {
	case Running:
		ev = Event{
			Kind:       WorkCompleted,
			CategoryID: t.categoryID,
			StartedAt:  t.sessionStart,
			Duration:   time.Duration(t.work) * time.Second,
			At:         now,
		}
	case Break:
		ev = Event{Kind: BreakCompleted, At: now}
	}
	t.resetLocked()
	if fromLoop {
		t.looping = false
	}
	t.logger.Info("interval completed", "event", ev.Kind.String())
	return ev, true, false
}

// ensureLoopLocked starts the ticker goroutine unless one is alive.
func (t *Timer) ensureLoopLocked() {
	if t.looping || t.closed {
		return
	}
	t.looping = true
	tk := t.newTicker(time.Second)
	t.wg.Add(1)
	go t.loop(tk)
}

func (t *Timer) loop(tk Ticker) {
	defer t.wg.Done()
	defer tk.Stop()
	t.logger.Trace("tick loop started")
	for {
		select {
		case <-t.done:
			return
		case <-tk.C():
			ev, fired, live := t.advance(true)
			if fired {
				t.emit(ev)
			}
			if !live {
				t.logger.Trace("tick loop exited")
				return
			}
		}
	}
}

func (t *Timer) emit(ev Event) {
	t.emitMu.RLock()
	defer t.emitMu.RUnlock()
	if t.eventsClosed {
		return
	}
	select {
	case t.events <- ev:
	case <-t.done:
	}
}
