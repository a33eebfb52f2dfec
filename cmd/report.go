package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/pomo/internal/analytics"
	"github.com/Tiliavir/pomo/internal/timecalc"
)

var (
	reportWeek   bool
	reportMonth  bool
	reportFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show aggregated time per category",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportWeek, "week", false, "Report for this week (default)")
	reportCmd.Flags().BoolVar(&reportMonth, "month", false, "Report for this month")
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, csv, json")
}

// report is the period-independent shape the renderers print.
type report struct {
	Label        string
	Period       analytics.PeriodStats
	BestDayCount int
	Heatmap      map[string]int
	raw          any
}

func runReport(cmd *cobra.Command, args []string) error {
	switch reportFormat {
	case "md", "csv", "json":
	default:
		return exitWith(exitUsage, fmt.Errorf("unknown --format %q (want md, csv or json)", reportFormat))
	}

	ctx := context.Background()
	app, _ := mustApp(ctx, os.Stderr)
	defer app.Close()

	var r report
	if reportMonth {
		st, err := app.Stats.Month(ctx)
		if err != nil {
			return exitWith(exitStorage, err)
		}
		r = report{Label: st.MonthName, Period: st.PeriodStats, BestDayCount: st.BestDayCount, Heatmap: st.Heatmap, raw: st}
	} else {
		st, err := app.Stats.Week(ctx)
		if err != nil {
			return exitWith(exitStorage, err)
		}
		r = report{Label: "Week " + timecalc.ISOWeekLabel(app.Stats.Now()), Period: st.PeriodStats, raw: st}
	}

	if err := printReport(os.Stdout, r, reportFormat); err != nil {
		return exitWith(exitStorage, err)
	}
	return nil
}

func printReport(w io.Writer, r report, format string) error {
	p := r.Period
	switch format {
	case "csv":
		fmt.Fprintln(w, "category,sessions,duration_minutes,percent")
		for _, c := range p.Categories {
			fmt.Fprintf(w, "%s,%d,%d,%.1f\n", csvEscape(c.Name), c.Count, c.Minutes, analytics.Percent(c.Minutes, p.TotalMinutes))
		}
	case "json":
		data, err := json.MarshalIndent(r.raw, "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding JSON: %w", err)
		}
		fmt.Fprintln(w, string(data))
	default: // md
		fmt.Fprintln(w, r.Label)
		fmt.Fprintln(w, "--------------------------------------")
		for _, c := range p.Categories {
			fmt.Fprintf(w, "%-14s%3d  %-9s%5.1f%%\n", c.Name, c.Count, timecalc.FormatMinutes(c.Minutes), analytics.Percent(c.Minutes, p.TotalMinutes))
		}
		fmt.Fprintln(w, "--------------------------------------")
		fmt.Fprintf(w, "%-14s%3d  %s (%.1fh)\n", "Total", p.TotalPomodoros, timecalc.FormatMinutes(p.TotalMinutes), p.TotalHours)
		if r.Heatmap != nil {
			fmt.Fprintf(w, "Best day: %d sessions\n\n", r.BestDayCount)
			fmt.Fprintln(w, heatmapRows(r.Heatmap))
		}
	}
	return nil
}

var heatGlyphs = []rune{'·', '░', '▒', '▓', '█', '■'}

// heatmapRows renders the month heatmap as one row of glyphs per week,
// Monday first.
func heatmapRows(heatmap map[string]int) string {
	days := make([]string, 0, len(heatmap))
	for d := range heatmap {
		days = append(days, d)
	}
	sort.Strings(days)
	if len(days) == 0 {
		return ""
	}

	out := "Mo Tu We Th Fr Sa Su\n"
	first, err := timecalc.ParseDate(days[0], time.UTC)
	if err == nil {
		lead := (int(first.Weekday()) + 6) % 7
		for i := 0; i < lead; i++ {
			out += "   "
		}
		for i, d := range days {
			out += string(heatGlyphs[heatmap[d]]) + "  "
			if (lead+i+1)%7 == 0 {
				out += "\n"
			}
		}
	}
	return out
}
