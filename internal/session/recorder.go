package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/Tiliavir/pomo/internal/model"
)

var (
	ErrInvalidDuration = errors.New("session duration must be positive")
	ErrInvalidRating   = errors.New("focus rating must be between 1 and 5")
)

// SessionInserter is the persistence operation the recorder forwards to.
type SessionInserter interface {
	InsertSession(ctx context.Context, categoryID int64, note string, durationMinutes int, startedAt time.Time, focusRating int) (int64, error)
}

// Entry is a finished work interval waiting to be persisted.
type Entry struct {
	CategoryID      int64
	Note            string
	DurationMinutes int
	StartedAt       time.Time
	// FocusRating 0 means "not rated" and is stored as the default.
	FocusRating int
}

// Recorder packages completed work intervals and persists them.
type Recorder struct {
	store  SessionInserter
	logger hclog.Logger
}

func NewRecorder(store SessionInserter, logger hclog.Logger) *Recorder {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Recorder{store: store, logger: logger}
}

// Record stores the entry and returns the assigned session id. Insert
// failures are returned as-is and never retried.
func (r *Recorder) Record(ctx context.Context, e Entry) (int64, error) {
	if e.DurationMinutes <= 0 {
		return 0, fmt.Errorf("%d minutes: %w", e.DurationMinutes, ErrInvalidDuration)
	}
	rating := e.FocusRating
	if rating == 0 {
		rating = model.DefaultFocusRating
	}
	if rating < model.MinFocusRating || rating > model.MaxFocusRating {
		return 0, fmt.Errorf("rating %d: %w", rating, ErrInvalidRating)
	}
	note := NormalizeNote(e.Note)

	id, err := r.store.InsertSession(ctx, e.CategoryID, note, e.DurationMinutes, e.StartedAt, rating)
	if err != nil {
		r.logger.Error("recording session failed", "category_id", e.CategoryID, "error", err)
		return 0, fmt.Errorf("record session: %w", err)
	}
	r.logger.Info("session recorded", "id", id, "category_id", e.CategoryID, "minutes", e.DurationMinutes)
	return id, nil
}

// NormalizeNote trims the note and substitutes the placeholder when
// nothing is left.
func NormalizeNote(note string) string {
	note = strings.TrimSpace(note)
	if note == "" {
		return model.NotePlaceholder
	}
	return note
}

// MinutesOf converts an interval length to whole minutes, rounding up so a
// sub-minute interval still records as one minute.
func MinutesOf(d time.Duration) int {
	return int(math.Ceil(d.Minutes()))
}
