package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/pomo/internal/analytics"
	"github.com/Tiliavir/pomo/internal/timecalc"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's sessions by time of day",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	app, _ := mustApp(ctx, os.Stderr)
	defer app.Close()

	today, err := app.Stats.Today(ctx)
	if err != nil {
		return exitWith(exitStorage, err)
	}
	printToday(os.Stdout, today)
	return nil
}

func printToday(w io.Writer, st analytics.DailyStats) {
	fmt.Fprintf(w, "Today (%s): %d sessions, %s\n", st.Date, st.TotalPomodoros, timecalc.FormatMinutes(st.TotalMinutes))
	if st.TotalPomodoros == 0 {
		fmt.Fprintln(w, "No sessions yet.")
		return
	}
	for _, seg := range analytics.Segments {
		b := st.TimeSegments[seg]
		if b == nil || b.Count == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s – %d sessions, %s\n", b.Label, b.Count, timecalc.FormatMinutes(b.Minutes))
		for _, s := range b.Sessions {
			fmt.Fprintf(w, "  %s  %-8s %s\n", s.StartedAt.Format("15:04"), s.CategoryName, s.Note)
		}
	}
}
