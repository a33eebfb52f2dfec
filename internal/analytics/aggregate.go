package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/Tiliavir/pomo/internal/model"
	"github.com/Tiliavir/pomo/internal/timecalc"
)

// Bucket holds the sessions that started inside one time-of-day segment.
type Bucket struct {
	Label    string          `json:"label"`
	Count    int             `json:"count"`
	Minutes  int             `json:"minutes"`
	Sessions []model.Session `json:"sessions"`
}

// CategoryTotal is the per-category slice of a period.
type CategoryTotal struct {
	Name    string   `json:"name"`
	Color   string   `json:"color"`
	Count   int      `json:"count"`
	Minutes int      `json:"minutes"`
	Notes   []string `json:"descriptions,omitempty"`
}

// DayTotal is the roll-up of one calendar day.
type DayTotal struct {
	Count   int `json:"count"`
	Minutes int `json:"minutes"`
}

// DailyStats is the "today" view.
type DailyStats struct {
	Date           string              `json:"date"`
	TotalPomodoros int                 `json:"total_pomodoros"`
	TotalMinutes   int                 `json:"total_minutes"`
	TotalHours     float64             `json:"total_hours"`
	TimeSegments   map[Segment]*Bucket `json:"time_segments"`
	Categories     []CategoryTotal     `json:"segments"`
}

// PeriodStats is shared by the weekly and monthly views.
type PeriodStats struct {
	TotalPomodoros int                 `json:"total_pomodoros"`
	TotalMinutes   int                 `json:"total_minutes"`
	TotalHours     float64             `json:"total_hours"`
	Categories     []CategoryTotal     `json:"segments"`
	Daily          map[string]DayTotal `json:"daily"`
}

// WeeklyStats is the Monday-Sunday view.
type WeeklyStats struct {
	WeekStart string `json:"week_start"`
	WeekEnd   string `json:"week_end"`
	PeriodStats
}

// MonthlyStats is the calendar-month view with its heatmap.
type MonthlyStats struct {
	MonthName    string         `json:"month_name"`
	MonthStart   string         `json:"month_start"`
	MonthEnd     string         `json:"month_end"`
	BestDayCount int            `json:"best_day_count"`
	Heatmap      map[string]int `json:"heatmap"`
	PeriodStats
}

// RoundHours converts minutes to hours rounded to one decimal.
func RoundHours(minutes int) float64 {
	return math.Round(float64(minutes)/60*10) / 10
}

// Today buckets the day's sessions by the segment of their start hour.
// Each bucket lists its sessions in start order.
func Today(day time.Time, sessions []model.Session) DailyStats {
	ordered := make([]model.Session, len(sessions))
	copy(ordered, sessions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartedAt.Before(ordered[j].StartedAt)
	})

	stats := DailyStats{
		Date:         timecalc.DateKey(day),
		TimeSegments: make(map[Segment]*Bucket, len(Segments)),
	}
	for _, seg := range Segments {
		stats.TimeSegments[seg] = &Bucket{Label: seg.Label(), Sessions: []model.Session{}}
	}
	for _, s := range ordered {
		b := stats.TimeSegments[Classify(s.StartedAt.Hour())]
		b.Count++
		b.Minutes += s.DurationMinutes
		b.Sessions = append(b.Sessions, s)
		stats.TotalMinutes += s.DurationMinutes
	}
	stats.TotalPomodoros = len(ordered)
	stats.TotalHours = RoundHours(stats.TotalMinutes)
	stats.Categories = byCategory(ordered, true)
	return stats
}

// Week aggregates the sessions of the week [from, to].
func Week(from, to time.Time, sessions []model.Session) WeeklyStats {
	return WeeklyStats{
		WeekStart:   timecalc.DateKey(from),
		WeekEnd:     timecalc.DateKey(to),
		PeriodStats: period(sessions),
	}
}

// Month aggregates the sessions of the month [from, to] and fills the
// heatmap for every day of the range, including empty ones.
func Month(from, to time.Time, sessions []model.Session) MonthlyStats {
	p := period(sessions)
	m := MonthlyStats{
		MonthName:    timecalc.MonthLabel(from),
		MonthStart:   timecalc.DateKey(from),
		MonthEnd:     timecalc.DateKey(to),
		BestDayCount: BestDayCount(p.Daily),
		Heatmap:      make(map[string]int),
		PeriodStats:  p,
	}
	for _, d := range timecalc.Days(from, to) {
		key := timecalc.DateKey(d)
		m.Heatmap[key] = Intensity(p.Daily[key].Count)
	}
	return m
}

// BestDayCount is the highest per-day count, zero for no days.
func BestDayCount(daily map[string]DayTotal) int {
	best := 0
	for _, d := range daily {
		if d.Count > best {
			best = d.Count
		}
	}
	return best
}

func period(sessions []model.Session) PeriodStats {
	p := PeriodStats{
		Daily:      make(map[string]DayTotal),
		Categories: byCategory(sessions, false),
	}
	for _, s := range sessions {
		p.TotalMinutes += s.DurationMinutes
		key := timecalc.DateKey(s.CompletedAt)
		d := p.Daily[key]
		d.Count++
		d.Minutes += s.DurationMinutes
		p.Daily[key] = d
	}
	p.TotalPomodoros = len(sessions)
	p.TotalHours = RoundHours(p.TotalMinutes)
	return p
}

// byCategory totals sessions per category name, largest minutes first.
func byCategory(sessions []model.Session, withNotes bool) []CategoryTotal {
	index := map[string]int{}
	out := []CategoryTotal{}
	for _, s := range sessions {
		i, ok := index[s.CategoryName]
		if !ok {
			i = len(out)
			index[s.CategoryName] = i
			out = append(out, CategoryTotal{Name: s.CategoryName, Color: s.CategoryColor})
		}
		out[i].Count++
		out[i].Minutes += s.DurationMinutes
		if withNotes && s.Note != "" && s.Note != model.NotePlaceholder {
			out[i].Notes = append(out[i].Notes, s.Note)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Minutes != out[j].Minutes {
			return out[i].Minutes > out[j].Minutes
		}
		return out[i].Name < out[j].Name
	})
	return out
}
