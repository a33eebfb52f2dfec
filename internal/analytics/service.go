package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/Tiliavir/pomo/internal/clock"
	"github.com/Tiliavir/pomo/internal/model"
	"github.com/Tiliavir/pomo/internal/timecalc"
)

// SessionSource is the read side of the persistence collaborator.
type SessionSource interface {
	SessionsCompletedOn(ctx context.Context, date time.Time) ([]model.Session, error)
	SessionsInRange(ctx context.Context, start, end time.Time) ([]model.Session, error)
}

// Service resolves "today", "this week" and "this month" against the clock
// and aggregates the matching sessions. It only reads.
type Service struct {
	src   SessionSource
	clock clock.Clock
}

func NewService(src SessionSource, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.System{}
	}
	return &Service{src: src, clock: clk}
}

func (s *Service) Today(ctx context.Context) (DailyStats, error) {
	now := s.clock.Now()
	sessions, err := s.src.SessionsCompletedOn(ctx, now)
	if err != nil {
		return DailyStats{}, fmt.Errorf("today stats: %w", err)
	}
	return Today(now, sessions), nil
}

func (s *Service) Week(ctx context.Context) (WeeklyStats, error) {
	from, to := timecalc.WeekRange(s.clock.Now())
	sessions, err := s.src.SessionsInRange(ctx, from, to)
	if err != nil {
		return WeeklyStats{}, fmt.Errorf("weekly stats: %w", err)
	}
	return Week(from, to, sessions), nil
}

func (s *Service) Month(ctx context.Context) (MonthlyStats, error) {
	from, to := timecalc.MonthRange(s.clock.Now())
	sessions, err := s.src.SessionsInRange(ctx, from, to)
	if err != nil {
		return MonthlyStats{}, fmt.Errorf("monthly stats: %w", err)
	}
	return Month(from, to, sessions), nil
}

// Range returns the raw sessions of an explicit date range.
func (s *Service) Range(ctx context.Context, from, to time.Time) ([]model.Session, error) {
	sessions, err := s.src.SessionsInRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("sessions %s..%s: %w", timecalc.DateKey(from), timecalc.DateKey(to), err)
	}
	return sessions, nil
}

// Now exposes the service clock to callers that label their output.
func (s *Service) Now() time.Time {
	return s.clock.Now()
}
