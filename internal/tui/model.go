// Package tui is the terminal timer: a countdown, a category selector and a
// note prompt shown after each finished work interval.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Tiliavir/pomo/internal/model"
	"github.com/Tiliavir/pomo/internal/timer"
)

// Controller is the session surface the terminal timer drives.
type Controller interface {
	Snapshot() timer.Snapshot
	Events() <-chan timer.Event
	Categories(ctx context.Context) ([]model.Category, error)
	SelectCategory(id int64)
	Toggle(ctx context.Context) error
	Reset()
	StartBreak()
	FinishWork(ctx context.Context, ev timer.Event, note string, rating int, takeBreak bool) (int64, error)
}

// Options tune the model's behaviour.
type Options struct {
	// DashboardURL is shown when the user presses d. Empty hides the hint.
	DashboardURL string
	// AutoLog records finished intervals without the note prompt.
	AutoLog bool
	// AutoBreak starts the break after an auto-logged interval.
	AutoBreak bool
}

// Model is the bubbletea model of the terminal timer.
type Model struct {
	ctrl Controller
	opts Options

	categories []model.Category
	catIdx     int
	snap       timer.Snapshot

	// Note prompt, open while a finished work interval awaits its note.
	prompt  textinput.Model
	pending *timer.Event
	rating  int

	status string
	err    error
	width  int
}

// Message types
type (
	categoriesMsg []model.Category
	tickMsg       time.Time
	eventMsg      timer.Event
	eventsDoneMsg struct{}
	recordedMsg   struct {
		id  int64
		err error
	}
	errMsg struct{ error }
)

func New(ctrl Controller, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "what did you work on?"
	ti.CharLimit = 200
	ti.Width = 40
	return Model{
		ctrl:   ctrl,
		opts:   opts,
		prompt: ti,
		rating: model.DefaultFocusRating,
		snap:   ctrl.Snapshot(),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadCategoriesCmd(),
		m.waitForEventCmd(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) loadCategoriesCmd() tea.Cmd {
	return func() tea.Msg {
		cats, err := m.ctrl.Categories(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return categoriesMsg(cats)
	}
}

// waitForEventCmd blocks on the next timer completion.
func (m Model) waitForEventCmd() tea.Cmd {
	events := m.ctrl.Events()
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return eventsDoneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m Model) finishCmd(ev timer.Event, note string, rating int, takeBreak bool) tea.Cmd {
	return func() tea.Msg {
		id, err := m.ctrl.FinishWork(context.Background(), ev, note, rating, takeBreak)
		return recordedMsg{id: id, err: err}
	}
}

// Prompting reports whether the note prompt is open.
func (m Model) Prompting() bool {
	return m.pending != nil
}

func (m Model) selected() (model.Category, bool) {
	if len(m.categories) == 0 {
		return model.Category{}, false
	}
	return m.categories[m.catIdx], true
}
