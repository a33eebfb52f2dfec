package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/pomo/internal/model"
	"github.com/Tiliavir/pomo/internal/timecalc"
)

var (
	listWeek  bool
	listMonth bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded sessions",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listWeek, "week", false, "Show this week's sessions")
	listCmd.Flags().BoolVar(&listMonth, "month", false, "Show this month's sessions")
}

// periodRange resolves --week/--month against now; the default is today.
func periodRange(now time.Time, week, month bool) (time.Time, time.Time) {
	switch {
	case month:
		return timecalc.MonthRange(now)
	case week:
		return timecalc.WeekRange(now)
	default:
		day := timecalc.StartOfDay(now)
		return day, day
	}
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	app, _ := mustApp(ctx, os.Stderr)
	defer app.Close()

	from, to := periodRange(app.Stats.Now(), listWeek, listMonth)
	sessions, err := app.Stats.Range(ctx, from, to)
	if err != nil {
		return exitWith(exitStorage, err)
	}
	printList(os.Stdout, sessions)
	return nil
}

// printList groups sessions by completion date and prints them. Sessions
// arrive newest first.
func printList(w io.Writer, sessions []model.Session) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No sessions found.")
		return
	}

	var currentDay string
	for _, s := range sessions {
		day := timecalc.DateKey(s.CompletedAt)
		if day != currentDay {
			fmt.Fprintln(w, day)
			currentDay = day
		}
		fmt.Fprintf(w, "%s–%s  %s  %s (%s) %s\n",
			s.StartedAt.Format("15:04"),
			s.CompletedAt.Format("15:04"),
			s.CategoryName,
			s.Note,
			timecalc.FormatMinutes(s.DurationMinutes),
			stars(s.FocusRating),
		)
	}
}

func stars(rating int) string {
	if rating <= 0 {
		return ""
	}
	return strings.Repeat("*", rating)
}
