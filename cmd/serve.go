package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/pomo/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run only the analytics dashboard and JSON API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, logger := mustApp(ctx, os.Stderr)
	defer app.Close()

	srv := server.New(app.Config.Addr(), app.Stats, app.Store, logger)
	fmt.Printf("Dashboard: http://%s (Ctrl+C to stop)\n", app.Config.Addr())
	if err := srv.Run(ctx); err != nil {
		return exitWith(exitUsage, err)
	}
	return nil
}
