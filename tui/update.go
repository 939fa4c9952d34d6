package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hochfrequenz/cycle-timer/internal/config"
	"github.com/hochfrequenz/cycle-timer/internal/countdown"
	"github.com/hochfrequenz/cycle-timer/internal/cycles"
	"github.com/hochfrequenz/cycle-timer/internal/domain"
	"github.com/hochfrequenz/cycle-timer/internal/history"
	"github.com/hochfrequenz/cycle-timer/internal/notify"
)

// NotifyResultMsg is sent when a notification delivery completes
type NotifyResultMsg struct {
	Err error
}

// ConfigReloadedMsg is sent by the config watcher
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case TickMsg:
		var cmds []tea.Cmd
		if countdown.Tick(m.manager, time.Time(msg)) == countdown.Finished {
			active, _ := m.manager.ActiveCycle()
			m.statusMsg = fmt.Sprintf("Finished %q", active.Task)
			cmds = append(cmds, m.notifyCmd(cycles.Change{Type: cycles.ChangeFinished, Cycle: active}))
		}
		cmds = append(cmds,
			tea.SetWindowTitle(countdown.WindowTitle(m.manager, AppName)),
			tickCmd(m.tickInterval),
		)
		return m, tea.Batch(cmds...)

	case NotifyResultMsg:
		if msg.Err != nil {
			m.statusMsg = "Notification failed: " + msg.Err.Error()
		}

	case ConfigReloadedMsg:
		if msg.Err != nil {
			m.statusMsg = "Config error: " + msg.Err.Error()
			return m, nil
		}
		m.applyConfig(msg.Config)
		m.statusMsg = "Config reloaded"
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m.quit()
	case tea.KeyTab:
		m.activeTab = (m.activeTab + 1) % tabCount
		return m, nil
	case tea.KeyShiftTab:
		m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		return m, nil
	}

	if m.activeTab == TabHistory {
		return m.handleHistoryKey(msg)
	}
	return m.handleHomeKey(msg)
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.quit()
	case "f":
		m.filterIdx = (m.filterIdx + 1) % len(statusFilters)
	case "h":
		m.activeTab = TabHome
	}
	return m, nil
}

func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.running() {
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlX:
			return m.interrupt()
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		return m.submit()
	case tea.KeyUp, tea.KeyDown:
		if m.focus == FieldTask {
			m.focus = FieldMinutes
		} else {
			m.focus = FieldTask
		}
	case tea.KeyRight:
		if m.focus == FieldTask {
			m.completeTask()
		}
	case tea.KeyBackspace:
		m.suggestions = nil
		if m.focus == FieldTask {
			m.task = dropLastRune(m.task)
		} else {
			m.minutesInput = dropLastRune(m.minutesInput)
		}
	case tea.KeySpace:
		if m.focus == FieldTask {
			m.task += " "
			m.suggestions = nil
		}
	case tea.KeyRunes:
		if m.focus == FieldTask {
			m.task += string(msg.Runes)
			m.suggestions = nil
		} else {
			m.editMinutes(msg.Runes)
		}
	}
	return m, nil
}

func (m *Model) editMinutes(runes []rune) {
	for _, r := range runes {
		switch {
		case r == '+':
			m.stepMinutes(domain.MinutesStep)
		case r == '-':
			m.stepMinutes(-domain.MinutesStep)
		case r >= '0' && r <= '9' && len(m.minutesInput) < 3:
			m.minutesInput += string(r)
		}
	}
}

func (m *Model) stepMinutes(delta int) {
	n, _ := strconv.Atoi(m.minutesInput)
	n += delta
	if n < domain.MinMinutes {
		n = domain.MinMinutes
	}
	if n > domain.MaxMinutes {
		n = domain.MaxMinutes
	}
	m.minutesInput = strconv.Itoa(n)
}

// completeTask replaces the task with the next ledger suggestion matching
// what has been typed so far
func (m *Model) completeTask() {
	if m.ledger == nil {
		return
	}
	if m.suggestions == nil {
		list, err := m.ledger.Suggestions(m.task, 10)
		if err != nil {
			m.statusMsg = "Suggestions unavailable: " + err.Error()
			return
		}
		if len(list) == 0 {
			return
		}
		m.suggestions = list
		m.suggestionIdx = 0
	} else {
		m.suggestionIdx = (m.suggestionIdx + 1) % len(m.suggestions)
	}
	m.task = m.suggestions[m.suggestionIdx]
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.submitDisabled() {
		return m, nil
	}

	minutes, _ := strconv.Atoi(strings.TrimSpace(m.minutesInput))
	c, err := m.manager.CreateCycle(m.task, minutes)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			m.formErr = verr
		}
		m.statusMsg = ""
		return m, nil
	}

	m.resetForm()
	m.statusMsg = fmt.Sprintf("Started %q for %d min", c.Task, c.MinutesAmount)
	return m, tea.SetWindowTitle(countdown.WindowTitle(m.manager, AppName))
}

func (m Model) interrupt() (tea.Model, tea.Cmd) {
	c, ok := m.manager.InterruptActiveCycle()
	if !ok {
		return m, nil
	}
	m.statusMsg = fmt.Sprintf("Interrupted %q", c.Task)
	return m, tea.Batch(
		m.notifyCmd(cycles.Change{Type: cycles.ChangeInterrupted, Cycle: c}),
		tea.SetWindowTitle(AppName),
	)
}

// quit interrupts a running cycle so that it is not left in progress
func (m Model) quit() (tea.Model, tea.Cmd) {
	m.manager.InterruptActiveCycle()
	m.quitting = true
	return m, tea.Quit
}

func (m *Model) resetForm() {
	m.task = ""
	m.minutesInput = strconv.Itoa(m.defaultMinutes)
	m.focus = FieldTask
	m.formErr = nil
	m.suggestions = nil
}

func (m *Model) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	formUntouched := m.task == "" && m.minutesInput == strconv.Itoa(m.defaultMinutes)
	m.defaultMinutes = cfg.Timer.DefaultMinutes
	m.tickInterval = cfg.Timer.TickInterval.Duration
	m.historyLimit = cfg.UI.HistoryLimit
	m.notifier = notify.FromConfig(cfg.Notifications)
	if formUntouched {
		m.minutesInput = strconv.Itoa(m.defaultMinutes)
	}
}

func (m Model) notifyCmd(ch cycles.Change) tea.Cmd {
	n, ok := notify.ForChange(ch)
	if !ok {
		return nil
	}
	notifier := m.notifier
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), notify.DeliveryTimeout)
		defer cancel()
		return NotifyResultMsg{Err: notify.Deliver(ctx, notifier, n)}
	}
}

// historyCycles returns the cycles shown in the history tab, newest first
func (m Model) historyCycles() ([]*domain.Cycle, error) {
	filter := m.statusFilter()
	if m.ledger != nil {
		return m.ledger.List(history.ListOptions{Status: filter, Limit: m.historyLimit})
	}

	all := m.manager.Cycles()
	var out []*domain.Cycle
	for i := len(all) - 1; i >= 0; i-- {
		c := all[i]
		if filter != "" && c.Status() != filter {
			continue
		}
		out = append(out, &c)
		if m.historyLimit > 0 && len(out) == m.historyLimit {
			break
		}
	}
	return out, nil
}

func dropLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}
