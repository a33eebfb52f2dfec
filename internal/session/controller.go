package session

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/Tiliavir/pomo/internal/model"
	"github.com/Tiliavir/pomo/internal/timer"
)

// CategoryStore resolves the authoritative category list.
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	CategoryByID(ctx context.Context, id int64) (model.Category, error)
}

// Controller is what front ends drive: it validates the category before a
// work interval starts and turns work completions into recorded sessions.
type Controller struct {
	timer      *timer.Timer
	recorder   *Recorder
	categories CategoryStore
	logger     hclog.Logger
}

func NewController(t *timer.Timer, r *Recorder, categories CategoryStore, logger hclog.Logger) *Controller {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Controller{timer: t, recorder: r, categories: categories, logger: logger}
}

func (c *Controller) Snapshot() timer.Snapshot {
	return c.timer.Snapshot()
}

func (c *Controller) Events() <-chan timer.Event {
	return c.timer.Events()
}

func (c *Controller) Categories(ctx context.Context) ([]model.Category, error) {
	return c.categories.ListCategories(ctx)
}

func (c *Controller) SelectCategory(id int64) {
	c.timer.SelectCategory(id)
}

// Start begins a work interval after re-resolving the selected category, so
// a category removed from the store cannot end up on a session.
func (c *Controller) Start(ctx context.Context) error {
	id := c.timer.Snapshot().CategoryID
	if id == 0 {
		return timer.ErrNoCategory
	}
	if _, err := c.categories.CategoryByID(ctx, id); err != nil {
		return fmt.Errorf("start work: %w", err)
	}
	_, err := c.timer.Start()
	return err
}

// Toggle is the single start/pause/resume control.
func (c *Controller) Toggle(ctx context.Context) error {
	switch c.timer.Snapshot().State {
	case timer.Idle:
		return c.Start(ctx)
	case timer.Running, timer.Break:
		c.timer.Pause()
	case timer.Paused:
		c.timer.Resume()
	}
	return nil
}

func (c *Controller) Reset() {
	c.timer.Reset()
}

func (c *Controller) StartBreak() {
	c.timer.StartBreak()
}

// FinishWork records the completed work interval and then either starts
// the break or, when the break is skipped, leaves the timer idle. The
// break starts even when recording fails: the countdown really ended. It
// only starts from Idle, so a work interval begun while the save was in
// flight keeps running.
func (c *Controller) FinishWork(ctx context.Context, ev timer.Event, note string, rating int, takeBreak bool) (int64, error) {
	if ev.Kind != timer.WorkCompleted {
		return 0, fmt.Errorf("finish work: unexpected event %s", ev.Kind)
	}
	id, err := c.recorder.Record(ctx, Entry{
		CategoryID:      ev.CategoryID,
		Note:            note,
		DurationMinutes: MinutesOf(ev.Duration),
		StartedAt:       ev.StartedAt,
		FocusRating:     rating,
	})
	if takeBreak && !c.timer.StartBreakFromIdle() {
		c.logger.Debug("break not started", "state", c.timer.Snapshot().State)
	}
	return id, err
}
