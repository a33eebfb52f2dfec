package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/pomo/internal/model"
	"github.com/Tiliavir/pomo/internal/timecalc"
)

var (
	exportMonth  bool
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export this week's (or month's) sessions to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().BoolVar(&exportMonth, "month", false, "Export this month instead of this week")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, md, yaml")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	app, _ := mustApp(ctx, os.Stderr)
	defer app.Close()

	from, to := periodRange(app.Stats.Now(), !exportMonth, exportMonth)
	sessions, err := app.Stats.Range(ctx, from, to)
	if err != nil {
		return exitWith(exitStorage, err)
	}

	if err := writeExport(os.Stdout, sessions, exportFormat); err != nil {
		return exitWith(exitUsage, err)
	}
	return nil
}

func writeExport(w io.Writer, sessions []model.Session, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(sessions, "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding JSON: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(sessions); err != nil {
			return fmt.Errorf("error encoding YAML: %w", err)
		}
		return enc.Close()
	case "md":
		printList(w, sessions)
	case "csv":
		printCSV(w, sessions)
	default:
		return fmt.Errorf("unknown --format %q (want csv, json, md or yaml)", format)
	}
	return nil
}

func printCSV(w io.Writer, sessions []model.Session) {
	fmt.Fprintln(w, "date,category,note,start,end,duration_minutes,focus_rating")
	for _, s := range sessions {
		fmt.Fprintf(w, "%s,%s,%s,%s,%s,%d,%d\n",
			csvEscape(timecalc.DateKey(s.CompletedAt)),
			csvEscape(s.CategoryName),
			csvEscape(s.Note),
			csvEscape(s.StartedAt.Format(time.RFC3339)),
			csvEscape(s.CompletedAt.Format(time.RFC3339)),
			s.DurationMinutes,
			s.FocusRating,
		)
	}
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	// Escape internal double quotes by doubling them.
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
