package clock

import "time"

// Clock abstracts wall-clock reads so timers and aggregations stay
// deterministic in tests.
type Clock interface {
	Now() time.Time
}

// System reads the local wall clock. Segment and day bucketing depend on
// local hours, so it does not convert to UTC.
type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

// Fixed always returns the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time {
	return time.Time(f)
}
