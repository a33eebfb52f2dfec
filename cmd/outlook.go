package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/pomo/internal/msgraph"
	"github.com/Tiliavir/pomo/internal/timecalc"
)

var (
	outlookSyncFrom   string
	outlookSyncTo     string
	outlookSyncDate   string
	outlookSyncToday  bool
	outlookSyncWeek   bool
	outlookSyncDryRun bool
	outlookSyncTZ     string
)

var outlookCmd = &cobra.Command{
	Use:   "outlook",
	Short: "Outlook calendar integration",
}

var outlookSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Export recorded sessions as Outlook calendar events",
	Args:  cobra.NoArgs,
	RunE:  runOutlookSync,
}

func init() {
	outlookSyncCmd.Flags().StringVar(&outlookSyncFrom, "from", "", "Start date (YYYY-MM-DD); required when --to is specified")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTo, "to", "", "End date (YYYY-MM-DD); defaults to today")
	outlookSyncCmd.Flags().StringVar(&outlookSyncDate, "date", "", "Sync a specific date (YYYY-MM-DD)")
	outlookSyncCmd.Flags().BoolVar(&outlookSyncToday, "today", false, "Sync only today (default)")
	outlookSyncCmd.Flags().BoolVar(&outlookSyncWeek, "week", false, "Sync this week")
	outlookSyncCmd.Flags().BoolVar(&outlookSyncDryRun, "dry-run", false, "Print planned operations without writing")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTZ, "timezone", "", "IANA timezone for event times (e.g. Europe/Berlin)")
	outlookCmd.AddCommand(outlookSyncCmd)
}

// syncRange resolves the date flags to an inclusive day range.
func syncRange(now time.Time, date, from, to string, week bool) (time.Time, time.Time, error) {
	loc := now.Location()
	switch {
	case date != "":
		d, err := timecalc.ParseDate(date, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("--date: %w", err)
		}
		return d, d, nil

	case from != "" || to != "":
		if from == "" {
			return time.Time{}, time.Time{}, fmt.Errorf("--from is required when --to is specified")
		}
		start, err := timecalc.ParseDate(from, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("--from: %w", err)
		}
		end := timecalc.StartOfDay(now)
		if to != "" {
			if end, err = timecalc.ParseDate(to, loc); err != nil {
				return time.Time{}, time.Time{}, fmt.Errorf("--to: %w", err)
			}
		}
		if end.Before(start) {
			return time.Time{}, time.Time{}, fmt.Errorf("--to %s is before --from %s", to, from)
		}
		return start, end, nil

	case week:
		start, end := timecalc.WeekRange(now)
		return start, end, nil

	default:
		// Default: today.
		day := timecalc.StartOfDay(now)
		return day, day, nil
	}
}

func runOutlookSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	app, logger := mustApp(ctx, os.Stderr)
	defer app.Close()

	from, to, err := syncRange(app.Stats.Now(), outlookSyncDate, outlookSyncFrom, outlookSyncTo, outlookSyncWeek)
	if err != nil {
		return exitWith(exitUsage, err)
	}

	timezone := outlookSyncTZ
	if timezone == "" {
		timezone = app.Config.Outlook.Timezone
	}

	sessions, err := app.Stats.Range(ctx, from, to)
	if err != nil {
		return exitWith(exitStorage, err)
	}

	dryTag := ""
	if outlookSyncDryRun {
		dryTag = " [dry-run]"
	}
	fmt.Printf("Exporting %d sessions to Outlook (%s → %s)%s...\n",
		len(sessions), timecalc.DateKey(from), timecalc.DateKey(to), dryTag)
	fmt.Println()
	if len(sessions) == 0 {
		return nil
	}

	store, err := msgraph.DefaultTokenStore()
	if err != nil {
		return exitWith(exitStorage, err)
	}
	tok, oauthCfg, err := msgraph.Authenticate(ctx, store, app.Config.Outlook.TenantID, app.Config.Outlook.ClientID, os.Stdout, logger.Named("msgraph"))
	if err != nil {
		return exitWith(exitUsage, fmt.Errorf("authentication failed: %w", err))
	}
	client := msgraph.NewClient(ctx, tok, oauthCfg, store)

	result, err := msgraph.SyncSessions(ctx, client, sessions, msgraph.SyncOptions{
		From:     from,
		To:       to,
		DryRun:   outlookSyncDryRun,
		Timezone: timezone,
	}, os.Stdout)
	if err != nil {
		return exitWith(exitUsage, fmt.Errorf("sync: %w", err))
	}

	fmt.Println()
	fmt.Println("Summary:")
	fmt.Printf("  %d exported\n", result.Exported)
	fmt.Printf("  %d skipped\n", result.Skipped)
	if result.Errors > 0 {
		fmt.Printf("  %d errors\n", result.Errors)
		return exitWith(exitStorage, fmt.Errorf("%d sessions could not be exported", result.Errors))
	}
	return nil
}
