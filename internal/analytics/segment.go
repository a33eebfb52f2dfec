package analytics

// Segment is a fixed part of the day used to bucket sessions by start hour.
type Segment string

const (
	Morning   Segment = "morning"
	Afternoon Segment = "afternoon"
	Evening   Segment = "evening"
	Midnight  Segment = "midnight"
)

// Segments lists every segment in display order.
var Segments = []Segment{Morning, Afternoon, Evening, Midnight}

// Classify maps a local wall-clock hour to its segment using half-open
// ranges: [6,12) morning, [12,18) afternoon, [18,24) evening, [0,6) midnight.
func Classify(hour int) Segment {
	hour = ((hour % 24) + 24) % 24
	switch {
	case hour >= 6 && hour < 12:
		return Morning
	case hour >= 12 && hour < 18:
		return Afternoon
	case hour >= 18:
		return Evening
	default:
		return Midnight
	}
}

// Label is the human-readable name including the hour range.
func (s Segment) Label() string {
	switch s {
	case Morning:
		return "Morning (6 AM - 12 PM)"
	case Afternoon:
		return "Afternoon (12 PM - 6 PM)"
	case Evening:
		return "Evening (6 PM - 12 AM)"
	case Midnight:
		return "Midnight (12 AM - 6 AM)"
	default:
		return string(s)
	}
}
