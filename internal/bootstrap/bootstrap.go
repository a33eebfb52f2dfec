// Package bootstrap wires the process singletons together.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/Tiliavir/pomo/internal/analytics"
	"github.com/Tiliavir/pomo/internal/clock"
	"github.com/Tiliavir/pomo/internal/config"
	"github.com/Tiliavir/pomo/internal/session"
	"github.com/Tiliavir/pomo/internal/storage"
	"github.com/Tiliavir/pomo/internal/timer"
)

type App struct {
	Config     config.Config
	Logger     hclog.Logger
	Store      *storage.Store
	Timer      *timer.Timer
	Controller *session.Controller
	Stats      *analytics.Service
}

// Options carries collaborators tests replace.
type Options struct {
	Clock     clock.Clock
	NewTicker timer.TickerFunc
}

func New(ctx context.Context, cfg config.Config, logger hclog.Logger, opts Options) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.System{}
	}

	dbPath := cfg.Storage.DBPath
	if dbPath == "" {
		p, err := storage.DefaultDBPath()
		if err != nil {
			return nil, err
		}
		dbPath = p
	}
	store, err := storage.Open(ctx, dbPath,
		storage.WithNow(clk.Now),
		storage.WithLogger(logger.Named("storage")),
	)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	t, err := timer.New(timer.Config{
		Work:      cfg.WorkDuration(),
		Break:     cfg.BreakDuration(),
		Clock:     clk,
		NewTicker: opts.NewTicker,
		Logger:    logger.Named("timer"),
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("new timer: %w", err)
	}

	recorder := session.NewRecorder(store, logger.Named("session"))
	ctrl := session.NewController(t, recorder, store, logger.Named("session"))

	logger.Debug("bootstrapped", "db", dbPath, "work", cfg.WorkDuration(), "break", cfg.BreakDuration())
	return &App{
		Config:     cfg,
		Logger:     logger,
		Store:      store,
		Timer:      t,
		Controller: ctrl,
		Stats:      analytics.NewService(store, clk),
	}, nil
}

// Close stops the timer loop and closes the database.
func (a *App) Close() error {
	a.Timer.Close()
	if err := a.Store.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}
