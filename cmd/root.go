package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Tiliavir/pomo/internal/bootstrap"
	"github.com/Tiliavir/pomo/internal/config"
	"github.com/Tiliavir/pomo/internal/logging"
)

// Exit codes: 1 for usage or input errors, 2 for storage errors.
const (
	exitUsage   = 1
	exitStorage = 2
)

var (
	configPath string
	// v layers flags and POMO_* environment variables over the config file.
	v = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "pomo",
	Short: "pomo – a focus timer with session analytics",
	Long: `pomo runs fixed-length focus intervals, records each finished interval
with a category and a note in ~/.pomo/pomodoro.db, and reports on them from
the terminal or a local web dashboard.

Run without a subcommand to start the timer and the dashboard together.`,
	Args:          cobra.NoArgs,
	RunE:          runBoth,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitError carries the process exit code for a failed command. Commands
// return it instead of exiting so their deferred teardown still runs.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func exitWith(code int, err error) error {
	return &exitError{code: code, err: err}
}

// exitCode maps a command error to the process exit code.
func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUsage
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Config file (default ~/.pomo/config.json)")
	pf.String("db", "", "SQLite database file (default ~/.pomo/pomodoro.db)")
	pf.Int("port", config.DefaultPort, "Dashboard listen port")
	pf.String("log-level", "", "Log level: trace, debug, info, warn, error, off")

	bindFlags(v, pf.Lookup("db"), pf.Lookup("port"), pf.Lookup("log-level"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(timerCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(categoryCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(outlookCmd)
}

// applyOverrides copies flag and environment values that were actually set
// onto cfg. Flag defaults never replace values from the file.
func applyOverrides(v *viper.Viper, cfg *config.Config) {
	if s := v.GetString("db"); s != "" {
		cfg.Storage.DBPath = s
	}
	if v.IsSet("port") {
		if p := v.GetInt("port"); p != 0 {
			cfg.Server.Port = p
		}
	}
	if s := v.GetString("log-level"); s != "" {
		cfg.Log.Level = strings.ToLower(s)
	}
}

// loadConfig reads the config file and applies flag/env overrides.
func loadConfig() (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return cfg, err
	}
	applyOverrides(v, &cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// mustApp loads the config and bootstraps the process, exiting like the
// other commands on failure. Logs go to w.
func mustApp(ctx context.Context, w io.Writer) (*bootstrap.App, hclog.Logger) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}
	logger := logging.New(cfg.Log, w)
	app, err := bootstrap.New(ctx, cfg, logger, bootstrap.Options{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitStorage)
	}
	return app, logger
}
