package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/hochfrequenz/cycle-timer/internal/countdown"
	"github.com/hochfrequenz/cycle-timer/internal/domain"
	"github.com/hochfrequenz/cycle-timer/internal/history"
)

var (
	headerStyle = lipgloss.NewStyle().
		Background(lipgloss.Color("236")).
		Foreground(lipgloss.Color("255")).
		Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	tabActiveStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("42")).
		Underline(true)

	tabInactiveStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("244"))

	inputStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("255")).
		Underline(true)

	focusedInputStyle = inputStyle.
		Foreground(lipgloss.Color("42"))

	digitStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("255")).
		Background(lipgloss.Color("238")).
		Padding(0, 2)

	separatorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("42")).
		Padding(0, 1)

	startButtonStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("255")).
		Background(lipgloss.Color("28")).
		Padding(0, 3)

	stopButtonStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("255")).
		Background(lipgloss.Color("160")).
		Padding(0, 3)

	disabledButtonStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("244")).
		Background(lipgloss.Color("236")).
		Padding(0, 3)

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("196"))

	completedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	inProgressStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("214"))

	interruptedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("196"))

	dimmedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))

	statusBarStyle = lipgloss.NewStyle().
		Background(lipgloss.Color("236")).
		Foreground(lipgloss.Color("255"))
)

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(headerStyle.Width(m.width).Render(m.renderHeader()))
	b.WriteString("\n")

	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	var section string
	switch m.activeTab {
	case TabHome:
		section = m.renderHome()
	case TabHistory:
		section = m.renderHistory()
	}
	b.WriteString(sectionStyle.Width(m.width - 2).Render(section))
	b.WriteString("\n")

	if m.statusMsg != "" {
		b.WriteString(dimmedStyle.Render(" " + m.statusMsg))
		b.WriteString("\n")
	}

	b.WriteString(statusBarStyle.Width(m.width).Render(m.renderHelp()))

	return b.String()
}

func (m Model) renderHeader() string {
	var finished, interrupted int
	for _, c := range m.manager.Cycles() {
		switch c.Status() {
		case domain.StatusFinished:
			finished++
		case domain.StatusInterrupted:
			interrupted++
		}
	}
	return fmt.Sprintf(" %s │ Cycles: %d │ Finished: %d │ Interrupted: %d ",
		AppName, len(m.manager.Cycles()), finished, interrupted)
}

func (m Model) renderTabs() string {
	names := []string{"Home", "History"}
	parts := make([]string, len(names))
	for i, name := range names {
		if Tab(i) == m.activeTab {
			parts[i] = tabActiveStyle.Render(name)
		} else {
			parts[i] = tabInactiveStyle.Render(name)
		}
	}
	return " " + strings.Join(parts, "  ")
}

func (m Model) renderHome() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(m.renderForm())
	b.WriteString("\n\n")

	b.WriteString(renderDigits(countdown.Digits(countdown.RemainingSeconds(m.manager))))
	b.WriteString("\n\n")

	if m.running() {
		b.WriteString(renderProgress(countdown.Progress(m.manager), 40))
		b.WriteString("\n\n")
		b.WriteString(stopButtonStyle.Render("■ Interrupt"))
	} else if m.submitDisabled() {
		b.WriteString(disabledButtonStyle.Render("▶ Start"))
	} else {
		b.WriteString(startButtonStyle.Render("▶ Start"))
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderForm() string {
	task := m.task
	minutes := m.minutesInput
	if m.running() {
		active, _ := m.manager.ActiveCycle()
		task = active.Task
		minutes = fmt.Sprintf("%d", active.MinutesAmount)
	}

	taskStyle, minutesStyle := inputStyle, inputStyle
	if !m.running() {
		if m.focus == FieldTask {
			taskStyle = focusedInputStyle
		} else {
			minutesStyle = focusedInputStyle
		}
	}

	if task == "" {
		task = dimmedStyle.Render("Name your task")
	} else {
		task = taskStyle.Render(task)
	}
	if minutes == "" {
		minutes = dimmedStyle.Render("00")
	} else {
		minutes = minutesStyle.Render(fmt.Sprintf("%2s", minutes))
	}

	line := fmt.Sprintf("I will work on  %s  for  %s  minutes.", task, minutes)

	var errs []string
	if m.formErr != nil {
		for _, field := range []string{domain.FieldTask, domain.FieldMinutesAmount} {
			if msg := m.formErr.Message(field); msg != "" {
				errs = append(errs, errorStyle.Render("  ✗ "+msg))
			}
		}
	}
	if len(errs) == 0 {
		return line
	}
	return line + "\n" + strings.Join(errs, "\n")
}

func renderDigits(d [4]byte) string {
	return lipgloss.JoinHorizontal(lipgloss.Center,
		digitStyle.Render(string(d[0])),
		" ",
		digitStyle.Render(string(d[1])),
		separatorStyle.Render(":"),
		digitStyle.Render(string(d[2])),
		" ",
		digitStyle.Render(string(d[3])),
	)
}

func renderProgress(p float64, width int) string {
	filled := int(p * float64(width))
	if filled > width {
		filled = width
	}
	return completedStyle.Render(strings.Repeat("█", filled)) +
		dimmedStyle.Render(strings.Repeat("░", width-filled))
}

func (m Model) renderHistory() string {
	var b strings.Builder

	filter := "all"
	if f := m.statusFilter(); f != "" {
		filter = f.Label()
	}
	b.WriteString(fmt.Sprintf("My history  %s\n\n", dimmedStyle.Render("filter: "+filter)))

	list, err := m.historyCycles()
	if err != nil {
		b.WriteString(errorStyle.Render("Failed to load history: " + err.Error()))
		return b.String()
	}
	if len(list) == 0 {
		b.WriteString(dimmedStyle.Render("No cycles yet"))
		return b.String()
	}

	rows := history.Rows(list, m.manager.Now())

	taskWidth := len(history.Columns[0])
	for _, r := range rows {
		if w := lipgloss.Width(r.Task); w > taskWidth {
			taskWidth = w
		}
	}
	if limit := m.width / 2; limit > 10 && taskWidth > limit {
		taskWidth = limit
	}

	taskCell := lipgloss.NewStyle().Width(taskWidth)
	b.WriteString(fmt.Sprintf("%s  %-8s  %-18s  %s\n",
		taskCell.Render(history.Columns[0]), history.Columns[1], history.Columns[2], history.Columns[3]))
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("%s  %-8s  %-18s  %s\n",
			taskCell.Render(truncate(r.Task, taskWidth)), r.Duration, r.Start, renderStatus(r.Status)))
	}

	return strings.TrimRight(b.String(), "\n")
}

func renderStatus(s domain.CycleStatus) string {
	switch s {
	case domain.StatusFinished:
		return completedStyle.Render("● " + s.Label())
	case domain.StatusInterrupted:
		return interruptedStyle.Render("● " + s.Label())
	default:
		return inProgressStyle.Render("● " + s.Label())
	}
}

func (m Model) renderHelp() string {
	switch {
	case m.activeTab == TabHistory:
		return " tab: home │ f: filter │ q: quit"
	case m.running():
		return " esc: interrupt │ tab: history │ ctrl+c: quit"
	default:
		return " enter: start │ ↑/↓: field │ +/-: minutes │ →: suggest │ tab: history │ ctrl+c: quit"
	}
}

// truncate shortens s to at most width terminal cells
func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if lipgloss.Width(b.String()+string(r)) >= width {
			break
		}
		b.WriteRune(r)
	}
	return b.String() + "…"
}
