package msgraph

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Tiliavir/pomo/internal/model"
	"github.com/Tiliavir/pomo/internal/timecalc"
)

// sessionNamespace scopes the deterministic transaction IDs of exported
// sessions.
var sessionNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/Tiliavir/pomo/sessions"))

const graphLayout = "2006-01-02T15:04:05"

// Calendar is the part of the Graph client the export needs.
type Calendar interface {
	GetCalendarView(ctx context.Context, from, to time.Time, timezone string) ([]CalendarEvent, error)
	CreateEvent(ctx context.Context, ev CalendarEvent) (CalendarEvent, error)
}

// SyncResult holds counters for a sync operation.
type SyncResult struct {
	Exported int
	Skipped  int
	Errors   int
}

// SyncOptions configures a sync run.
type SyncOptions struct {
	From     time.Time
	To       time.Time
	DryRun   bool
	Timezone string
}

// parseGraphTime parses a Graph API dateTime string in the given timezone.
// Graph returns times like "2026-02-27T09:00:00.0000000" without a zone suffix
// when a Prefer: outlook.timezone header is set.
func parseGraphTime(dt, tz string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, dt); err == nil {
		return t, nil
	}
	loc := location(tz)
	for _, layout := range []string{
		"2006-01-02T15:04:05.0000000",
		graphLayout,
	} {
		if t, err := time.ParseInLocation(layout, dt, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse graph time %q", dt)
}

func location(tz string) *time.Location {
	if tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			return l
		}
	}
	return time.UTC
}

// Subject is the calendar subject used for a session.
func Subject(s model.Session) string {
	return "Pomodoro: " + s.CategoryName
}

// TransactionID is stable per session so Graph rejects a repeated create.
func TransactionID(s model.Session) string {
	key := fmt.Sprintf("%d/%s", s.ID, s.StartedAt.Format(graphLayout))
	return uuid.NewSHA1(sessionNamespace, []byte(key)).String()
}

// MapSessionToEvent converts a recorded session into a Graph event in the
// given timezone. The event spans the session's work duration from its start.
func MapSessionToEvent(s model.Session, timezone string) CalendarEvent {
	loc := location(timezone)
	tzName := timezone
	if tzName == "" {
		tzName = "UTC"
	}
	start := s.StartedAt.In(loc)
	end := start.Add(time.Duration(s.DurationMinutes) * time.Minute)

	var body strings.Builder
	if s.Note != "" && s.Note != model.NotePlaceholder {
		body.WriteString(s.Note)
		body.WriteString("\n\n")
	}
	fmt.Fprintf(&body, "Focus: %d/%d", s.FocusRating, model.MaxFocusRating)

	return CalendarEvent{
		Subject:       Subject(s),
		Body:          &ItemBody{ContentType: "text", Content: body.String()},
		ShowAs:        "busy",
		Categories:    []string{s.CategoryName},
		TransactionID: TransactionID(s),
		Start:         DateTimeZone{DateTime: start.Format(graphLayout), TimeZone: tzName},
		End:           DateTimeZone{DateTime: end.Format(graphLayout), TimeZone: tzName},
	}
}

// eventKey identifies an event by subject and start minute.
func eventKey(subject string, start time.Time) string {
	return subject + "@" + start.UTC().Truncate(time.Minute).Format(time.RFC3339)
}

// existingKeys indexes the non-cancelled calendar events already present.
func existingKeys(events []CalendarEvent, timezone string) map[string]bool {
	keys := make(map[string]bool, len(events))
	for _, ev := range events {
		if ev.IsCancelled || ev.Start.DateTime == "" {
			continue
		}
		start, err := parseGraphTime(ev.Start.DateTime, timezone)
		if err != nil {
			continue
		}
		keys[eventKey(ev.Subject, start)] = true
	}
	return keys
}

// SyncSessions exports sessions to the calendar, skipping those already
// present with the same subject and start. Progress goes to out.
func SyncSessions(ctx context.Context, cal Calendar, sessions []model.Session, opts SyncOptions, out io.Writer) (SyncResult, error) {
	var result SyncResult

	// Graph's calendarView end is exclusive.
	existing, err := cal.GetCalendarView(ctx, timecalc.StartOfDay(opts.From), timecalc.StartOfDay(opts.To).AddDate(0, 0, 1), opts.Timezone)
	if err != nil {
		return result, fmt.Errorf("fetching calendar: %w", err)
	}
	seen := existingKeys(existing, opts.Timezone)

	for _, s := range sessions {
		ev := MapSessionToEvent(s, opts.Timezone)
		label := fmt.Sprintf("%s %s (%s)", s.StartedAt.Format("2006-01-02 15:04"), ev.Subject, timecalc.FormatMinutes(s.DurationMinutes))

		key := eventKey(ev.Subject, s.StartedAt)
		if seen[key] {
			fmt.Fprintf(out, "  – Skipped:  %s (already exists)\n", label)
			result.Skipped++
			continue
		}
		if !opts.DryRun {
			if _, err := cal.CreateEvent(ctx, ev); err != nil {
				fmt.Fprintf(out, "  ! Error exporting %s: %v\n", label, err)
				result.Errors++
				continue
			}
		}
		seen[key] = true
		fmt.Fprintf(out, "  ✓ Exported: %s\n", label)
		result.Exported++
	}
	return result, nil
}
