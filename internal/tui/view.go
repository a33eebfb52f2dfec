package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Tiliavir/pomo/internal/timecalc"
	"github.com/Tiliavir/pomo/internal/timer"
)

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("pomo"))
	b.WriteString("\n\n")

	color := stateColor(m.snap.State)
	b.WriteString(stateStyle.Foreground(color).Render(stateLabel(m.snap.State)))
	b.WriteString("\n")
	b.WriteString(clockStyle.BorderForeground(color).Foreground(color).Render(timecalc.FormatClock(m.snap.Remaining)))
	b.WriteString("\n")

	b.WriteString(m.categoryBar())
	b.WriteString("\n\n")

	if m.Prompting() {
		stars := strings.Repeat("★", m.rating) + strings.Repeat("☆", 5-m.rating)
		b.WriteString(promptStyle.Render(fmt.Sprintf("Note: %s\nFocus: %s", m.prompt.View(), stars)))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter save + break • esc save + skip break • tab focus rating"))
		b.WriteString("\n")
		return b.String()
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("space start/pause • tab category • b break • r reset • d dashboard • q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) categoryBar() string {
	if len(m.categories) == 0 {
		return helpStyle.Render("loading categories…")
	}
	pills := make([]string, 0, len(m.categories))
	for i, c := range m.categories {
		style := pillStyle
		if i == m.catIdx {
			style = style.Bold(true).
				Foreground(fgColor).
				Background(lipgloss.Color(c.Color))
		}
		pills = append(pills, style.Render(c.Name))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, pills...)
}

func stateLabel(s timer.State) string {
	switch s {
	case timer.Idle:
		return "Ready"
	case timer.Running:
		return "Focus"
	case timer.Paused:
		return "Paused"
	case timer.Break:
		return "Break"
	default:
		return s.String()
	}
}

func stateColor(s timer.State) lipgloss.Color {
	switch s {
	case timer.Running:
		return workColor
	case timer.Paused:
		return pauseColor
	case timer.Break:
		return breakColor
	default:
		return mutedColor
	}
}
