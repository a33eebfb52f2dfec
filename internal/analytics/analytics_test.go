package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Tiliavir/pomo/internal/analytics"
	"github.com/Tiliavir/pomo/internal/clock"
	"github.com/Tiliavir/pomo/internal/model"
)

func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.March, day, hour, minute, 0, 0, time.Local)
}

func sess(name string, minutes int, started, completed time.Time) model.Session {
	return model.Session{
		CategoryName:    name,
		CategoryColor:   "#000000",
		Note:            model.NotePlaceholder,
		DurationMinutes: minutes,
		FocusRating:     model.DefaultFocusRating,
		StartedAt:       started,
		CompletedAt:     completed,
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		hour int
		want analytics.Segment
	}{
		{0, analytics.Midnight},
		{5, analytics.Midnight},
		{6, analytics.Morning},
		{11, analytics.Morning},
		{12, analytics.Afternoon},
		{17, analytics.Afternoon},
		{18, analytics.Evening},
		{23, analytics.Evening},
		{24, analytics.Midnight},
		{30, analytics.Morning},
		{-1, analytics.Evening},
	}
	for _, tt := range tests {
		if got := analytics.Classify(tt.hour); got != tt.want {
			t.Errorf("Classify(%d) = %q, want %q", tt.hour, got, tt.want)
		}
	}
}

func TestSegmentLabels(t *testing.T) {
	want := map[analytics.Segment]string{
		analytics.Morning:   "Morning (6 AM - 12 PM)",
		analytics.Afternoon: "Afternoon (12 PM - 6 PM)",
		analytics.Evening:   "Evening (6 PM - 12 AM)",
		analytics.Midnight:  "Midnight (12 AM - 6 AM)",
	}
	for seg, label := range want {
		if got := seg.Label(); got != label {
			t.Errorf("%s.Label() = %q, want %q", seg, got, label)
		}
	}
}

func TestIntensity(t *testing.T) {
	tests := []struct{ count, want int }{
		{0, 0}, {1, 1}, {2, 1}, {3, 2}, {4, 2}, {5, 3}, {6, 3},
		{7, 4}, {9, 4}, {10, 5}, {42, 5},
	}
	for _, tt := range tests {
		if got := analytics.Intensity(tt.count); got != tt.want {
			t.Errorf("Intensity(%d) = %d, want %d", tt.count, got, tt.want)
		}
	}
}

func TestPercent(t *testing.T) {
	if got := analytics.Percent(5, 0); got != 0 {
		t.Errorf("Percent(5, 0) = %v, want 0", got)
	}
	if got := analytics.Percent(1, 4); got != 25 {
		t.Errorf("Percent(1, 4) = %v, want 25", got)
	}
}

func TestRoundHours(t *testing.T) {
	tests := []struct {
		minutes int
		want    float64
	}{
		{0, 0}, {25, 0.4}, {75, 1.3}, {60, 1}, {90, 1.5},
	}
	for _, tt := range tests {
		if got := analytics.RoundHours(tt.minutes); got != tt.want {
			t.Errorf("RoundHours(%d) = %v, want %v", tt.minutes, got, tt.want)
		}
	}
}

func TestTodayBucketsByStartHour(t *testing.T) {
	sessions := []model.Session{
		sess("Work", 25, at(4, 14, 30), at(4, 14, 55)),
		sess("Work", 25, at(4, 9, 0), at(4, 9, 25)),
		sess("Learn", 25, at(4, 7, 0), at(4, 7, 25)),
		sess("Chill", 25, at(4, 2, 0), at(4, 2, 25)),
		sess("Build", 25, at(4, 11, 50), at(4, 12, 15)),
	}
	got := analytics.Today(at(4, 20, 0), sessions)

	if got.Date != "2024-03-04" {
		t.Errorf("date = %q", got.Date)
	}
	if got.TotalPomodoros != 5 || got.TotalMinutes != 125 || got.TotalHours != 2.1 {
		t.Errorf("totals = %d/%d/%v, want 5/125/2.1", got.TotalPomodoros, got.TotalMinutes, got.TotalHours)
	}
	if len(got.TimeSegments) != 4 {
		t.Fatalf("segments = %d, want 4", len(got.TimeSegments))
	}

	morning := got.TimeSegments[analytics.Morning]
	if morning.Count != 3 || morning.Minutes != 75 {
		t.Errorf("morning = %d/%d, want 3/75", morning.Count, morning.Minutes)
	}
	// 11:50 start stays in the morning even though it completed after noon.
	wantOrder := []int{7, 9, 11}
	for i, s := range morning.Sessions {
		if s.StartedAt.Hour() != wantOrder[i] {
			t.Errorf("morning[%d] starts at %d, want %d", i, s.StartedAt.Hour(), wantOrder[i])
		}
	}
	if got.TimeSegments[analytics.Afternoon].Count != 1 {
		t.Errorf("afternoon count = %d", got.TimeSegments[analytics.Afternoon].Count)
	}
	if got.TimeSegments[analytics.Midnight].Count != 1 {
		t.Errorf("midnight count = %d", got.TimeSegments[analytics.Midnight].Count)
	}
	evening := got.TimeSegments[analytics.Evening]
	if evening.Count != 0 || evening.Sessions == nil {
		t.Errorf("empty evening bucket = %+v", evening)
	}

	if len(got.Categories) != 4 || got.Categories[0].Name != "Work" || got.Categories[0].Minutes != 50 {
		t.Errorf("categories = %+v", got.Categories)
	}
}

func TestTodayEmpty(t *testing.T) {
	got := analytics.Today(at(4, 8, 0), nil)
	if got.TotalPomodoros != 0 || got.TotalHours != 0 {
		t.Errorf("totals = %+v", got)
	}
	for _, seg := range analytics.Segments {
		if got.TimeSegments[seg].Count != 0 {
			t.Errorf("%s count = %d", seg, got.TimeSegments[seg].Count)
		}
	}
}

func TestTodayCollectsNotes(t *testing.T) {
	a := sess("Work", 25, at(4, 9, 0), at(4, 9, 25))
	a.Note = "wrote parser"
	b := sess("Work", 25, at(4, 10, 0), at(4, 10, 25))
	got := analytics.Today(at(4, 12, 0), []model.Session{a, b})
	if len(got.Categories) != 1 {
		t.Fatalf("categories = %+v", got.Categories)
	}
	notes := got.Categories[0].Notes
	if len(notes) != 1 || notes[0] != "wrote parser" {
		t.Errorf("notes = %v, want [wrote parser]", notes)
	}
}

func TestWeek(t *testing.T) {
	from, to := at(4, 0, 0), at(10, 0, 0)
	sessions := []model.Session{
		sess("Work", 25, at(4, 9, 0), at(4, 9, 25)),
		sess("Work", 25, at(4, 10, 0), at(4, 10, 25)),
		sess("Learn", 30, at(6, 15, 0), at(6, 15, 30)),
	}
	got := analytics.Week(from, to, sessions)

	if got.WeekStart != "2024-03-04" || got.WeekEnd != "2024-03-10" {
		t.Errorf("range = %s..%s", got.WeekStart, got.WeekEnd)
	}
	if got.TotalPomodoros != 3 || got.TotalMinutes != 80 || got.TotalHours != 1.3 {
		t.Errorf("totals = %d/%d/%v, want 3/80/1.3", got.TotalPomodoros, got.TotalMinutes, got.TotalHours)
	}
	if d := got.Daily["2024-03-04"]; d.Count != 2 || d.Minutes != 50 {
		t.Errorf("daily 03-04 = %+v", d)
	}
	if _, ok := got.Daily["2024-03-05"]; ok {
		t.Error("day without sessions should be absent")
	}
	if got.Categories[0].Name != "Work" || got.Categories[1].Name != "Learn" {
		t.Errorf("category order = %+v", got.Categories)
	}
}

func TestCategoryTieBreaksByName(t *testing.T) {
	sessions := []model.Session{
		sess("Solve", 25, at(4, 9, 0), at(4, 9, 25)),
		sess("Build", 25, at(4, 10, 0), at(4, 10, 25)),
	}
	got := analytics.Week(at(4, 0, 0), at(10, 0, 0), sessions)
	if got.Categories[0].Name != "Build" {
		t.Errorf("first = %q, want Build", got.Categories[0].Name)
	}
}

func TestMonth(t *testing.T) {
	from, to := at(1, 0, 0), at(31, 0, 0)
	var sessions []model.Session
	for i := 0; i < 5; i++ {
		sessions = append(sessions, sess("Work", 25, at(12, 8+i, 0), at(12, 8+i, 25)))
	}
	sessions = append(sessions, sess("Learn", 25, at(20, 8, 0), at(20, 8, 25)))

	got := analytics.Month(from, to, sessions)
	if got.MonthName != "March 2024" {
		t.Errorf("month name = %q", got.MonthName)
	}
	if got.MonthStart != "2024-03-01" || got.MonthEnd != "2024-03-31" {
		t.Errorf("range = %s..%s", got.MonthStart, got.MonthEnd)
	}
	if got.BestDayCount != 5 {
		t.Errorf("best day = %d, want 5", got.BestDayCount)
	}
	if len(got.Heatmap) != 31 {
		t.Errorf("heatmap days = %d, want 31", len(got.Heatmap))
	}
	if got.Heatmap["2024-03-12"] != 3 || got.Heatmap["2024-03-20"] != 1 || got.Heatmap["2024-03-01"] != 0 {
		t.Errorf("heatmap = %v", got.Heatmap)
	}
}

func TestMonthEmpty(t *testing.T) {
	got := analytics.Month(at(1, 0, 0), at(31, 0, 0), nil)
	if got.BestDayCount != 0 || got.TotalPomodoros != 0 {
		t.Errorf("empty month = %+v", got)
	}
}

type fakeSource struct {
	day      time.Time
	from, to time.Time
	sessions []model.Session
	err      error
}

func (f *fakeSource) SessionsCompletedOn(_ context.Context, date time.Time) ([]model.Session, error) {
	f.day = date
	return f.sessions, f.err
}

func (f *fakeSource) SessionsInRange(_ context.Context, start, end time.Time) ([]model.Session, error) {
	f.from, f.to = start, end
	return f.sessions, f.err
}

func TestServiceResolvesRanges(t *testing.T) {
	// Wednesday.
	now := at(6, 15, 0)
	src := &fakeSource{}
	svc := analytics.NewService(src, clock.Fixed(now))
	ctx := context.Background()

	if _, err := svc.Week(ctx); err != nil {
		t.Fatal(err)
	}
	if !src.from.Equal(at(4, 0, 0)) || !src.to.Equal(at(10, 0, 0)) {
		t.Errorf("week range = %v..%v", src.from, src.to)
	}

	if _, err := svc.Month(ctx); err != nil {
		t.Fatal(err)
	}
	if !src.from.Equal(at(1, 0, 0)) || !src.to.Equal(at(31, 0, 0)) {
		t.Errorf("month range = %v..%v", src.from, src.to)
	}

	if _, err := svc.Today(ctx); err != nil {
		t.Fatal(err)
	}
	if !src.day.Equal(now) {
		t.Errorf("today = %v", src.day)
	}
}

func TestServiceWrapsErrors(t *testing.T) {
	boom := errors.New("disk gone")
	svc := analytics.NewService(&fakeSource{err: boom}, clock.Fixed(at(6, 15, 0)))
	if _, err := svc.Today(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Today err = %v", err)
	}
	if _, err := svc.Week(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Week err = %v", err)
	}
}
