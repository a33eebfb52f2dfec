package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/pomo/internal/bootstrap"
	"github.com/Tiliavir/pomo/internal/logging"
	"github.com/Tiliavir/pomo/internal/storage"
	"github.com/Tiliavir/pomo/internal/tui"
)

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Run only the terminal timer",
	Args:  cobra.NoArgs,
	RunE:  runTimer,
}

func runTimer(cmd *cobra.Command, args []string) error {
	logFile := mustLogFile()
	defer logFile.Close()

	app, _ := mustApp(context.Background(), logFile)
	defer app.Close()

	if err := runProgram(context.Background(), app, ""); err != nil {
		return exitWith(exitUsage, err)
	}
	return nil
}

// runProgram runs the terminal timer until the user quits or ctx ends.
func runProgram(ctx context.Context, app *bootstrap.App, dashboardURL string) error {
	m := tui.New(app.Controller, tui.Options{
		DashboardURL: dashboardURL,
		AutoLog:      app.Config.Timer.AutoLog,
		AutoBreak:    app.Config.AutoBreakEnabled(),
	})
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("timer UI: %w", err)
	}
	return nil
}

// mustLogFile opens ~/.pomo/pomo.log; the terminal belongs to the UI.
func mustLogFile() *os.File {
	dir, err := storage.BaseDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitStorage)
	}
	f, err := logging.OpenFile(dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitStorage)
	}
	return f
}
