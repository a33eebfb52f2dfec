package timer

import "time"

// State is the phase of the single in-process timer run.
type State int

const (
	Idle State = iota
	Running
	Paused
	Break
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Break:
		return "break"
	default:
		return "unknown"
	}
}

// Live reports whether the ticker counts down in this state.
func (s State) Live() bool {
	return s == Running || s == Break
}

// EventKind distinguishes the two completion events.
type EventKind int

const (
	WorkCompleted EventKind = iota + 1
	BreakCompleted
)

func (k EventKind) String() string {
	switch k {
	case WorkCompleted:
		return "work_completed"
	case BreakCompleted:
		return "break_completed"
	default:
		return "unknown"
	}
}

// Event is emitted when a countdown reaches zero. CategoryID, StartedAt
// and Duration are only set for WorkCompleted.
type Event struct {
	Kind       EventKind
	CategoryID int64
	StartedAt  time.Time
	Duration   time.Duration
	At         time.Time
}

// Snapshot is a consistent copy of the timer run.
type Snapshot struct {
	State        State
	Remaining    int // seconds
	SessionStart time.Time
	CategoryID   int64
	Work         time.Duration
	Break        time.Duration
}
