package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Tiliavir/pomo/internal/model"
	"github.com/Tiliavir/pomo/internal/timer"
)

// Update handles incoming messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tickMsg:
		m.snap = m.ctrl.Snapshot()
		return m, tickCmd()

	case categoriesMsg:
		m.categories = msg
		m.catIdx = 0
		current := m.ctrl.Snapshot().CategoryID
		for i, c := range m.categories {
			if c.ID == current {
				m.catIdx = i
			}
		}
		if c, ok := m.selected(); ok {
			m.ctrl.SelectCategory(c.ID)
		}
		m.snap = m.ctrl.Snapshot()
		return m, nil

	case eventMsg:
		return m.handleEvent(timer.Event(msg))

	case eventsDoneMsg:
		return m, nil

	case recordedMsg:
		m.snap = m.ctrl.Snapshot()
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.status = fmt.Sprintf("Session #%d saved", msg.id)
		return m, nil

	case errMsg:
		m.err = msg.error
		return m, nil

	case tea.KeyMsg:
		if m.Prompting() {
			return m.updatePrompt(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleEvent(ev timer.Event) (tea.Model, tea.Cmd) {
	m.snap = m.ctrl.Snapshot()
	next := m.waitForEventCmd()
	switch ev.Kind {
	case timer.WorkCompleted:
		if m.opts.AutoLog {
			m.status = "Work interval finished, saving"
			return m, tea.Batch(next, m.finishCmd(ev, "", 0, m.opts.AutoBreak))
		}
		m.pending = &ev
		m.rating = model.DefaultFocusRating
		m.prompt.SetValue("")
		m.status = "Work interval finished"
		focus := m.prompt.Focus()
		return m, tea.Batch(next, focus)
	case timer.BreakCompleted:
		m.status = "Break over, ready for the next one"
	}
	return m, next
}

// updatePrompt handles keys while the note prompt is open: enter saves and
// takes the break, esc saves and skips it.
func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		ev := *m.pending
		note := m.prompt.Value()
		takeBreak := msg.String() == "enter"
		m.pending = nil
		m.prompt.Blur()
		if takeBreak {
			m.status = "Saving, break started"
		} else {
			m.status = "Saving, break skipped"
		}
		return m, m.finishCmd(ev, note, m.rating, takeBreak)
	case "tab":
		m.rating = m.rating%model.MaxFocusRating + 1
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case " ", "enter":
		if err := m.ctrl.Toggle(context.Background()); err != nil {
			m.err = err
		} else {
			m.err = nil
		}
	case "r":
		m.ctrl.Reset()
		m.status = "Reset"
	case "b":
		m.ctrl.StartBreak()
		m.status = "Break started"
	case "tab", "right", "l":
		m.cycle(1)
	case "shift+tab", "left", "h":
		m.cycle(-1)
	case "d":
		if m.opts.DashboardURL == "" {
			m.status = "Dashboard not running (start with: pomo run)"
		} else {
			m.status = "Dashboard: " + m.opts.DashboardURL
		}
	}
	m.snap = m.ctrl.Snapshot()
	return m, nil
}

func (m *Model) cycle(step int) {
	n := len(m.categories)
	if n == 0 {
		return
	}
	m.catIdx = ((m.catIdx+step)%n + n) % n
	m.ctrl.SelectCategory(m.categories[m.catIdx].ID)
}
