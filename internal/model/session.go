package model

import "time"

const (
	// NotePlaceholder replaces notes that are empty after trimming.
	NotePlaceholder = "No description"
	// DefaultFocusRating is the mid-scale rating used when none is given.
	DefaultFocusRating = 3
	MinFocusRating     = 1
	MaxFocusRating     = 5
)

// Session is one completed work interval as persisted. Category name and
// color are denormalized on reads so aggregations need no second lookup.
type Session struct {
	ID              int64     `json:"id" yaml:"id"`
	CategoryID      int64     `json:"category_id" yaml:"category_id"`
	CategoryName    string    `json:"segment_name" yaml:"category"`
	CategoryColor   string    `json:"segment_color" yaml:"color"`
	Note            string    `json:"description" yaml:"note"`
	DurationMinutes int       `json:"duration_minutes" yaml:"duration_minutes"`
	FocusRating     int       `json:"focus_rating" yaml:"focus_rating"`
	StartedAt       time.Time `json:"started_at" yaml:"started_at"`
	CompletedAt     time.Time `json:"completed_at" yaml:"completed_at"`
}
