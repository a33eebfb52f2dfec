package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Tiliavir/pomo/internal/server"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the terminal timer and the dashboard together (default)",
	Args:  cobra.NoArgs,
	RunE:  runBoth,
}

func runBoth(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logFile := mustLogFile()
	defer logFile.Close()

	app, logger := mustApp(ctx, logFile)
	defer app.Close()

	srv := server.New(app.Config.Addr(), app.Stats, app.Store, logger)
	url := "http://" + app.Config.Addr()

	g, gctx := errgroup.WithContext(ctx)
	uiCtx, uiDone := context.WithCancel(gctx)
	defer uiDone()

	g.Go(func() error {
		return srv.Run(uiCtx)
	})
	g.Go(func() error {
		// Leaving the UI stops the server too.
		defer uiDone()
		err := runProgram(gctx, app, url)
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return exitWith(exitUsage, err)
	}
	return nil
}
