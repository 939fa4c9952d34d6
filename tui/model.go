package tui

import (
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hochfrequenz/cycle-timer/internal/cycles"
	"github.com/hochfrequenz/cycle-timer/internal/domain"
	"github.com/hochfrequenz/cycle-timer/internal/history"
	"github.com/hochfrequenz/cycle-timer/internal/notify"
)

// AppName is shown in the header and as the idle window title
const AppName = "cycle-timer"

// Tab selects the visible page
type Tab int

const (
	TabHome Tab = iota
	TabHistory
	tabCount
)

// Field is a focusable input of the new cycle form
type Field int

const (
	FieldTask Field = iota
	FieldMinutes
)

// statusFilters is the order in which "f" cycles the history filter
var statusFilters = []domain.CycleStatus{
	"",
	domain.StatusInProgress,
	domain.StatusFinished,
	domain.StatusInterrupted,
}

// Model is the TUI application model
type Model struct {
	// Data
	manager  *cycles.Manager
	ledger   *history.Store
	notifier notify.Notifier

	// Form
	task           string
	minutesInput   string
	defaultMinutes int
	focus          Field
	formErr        *domain.ValidationError
	suggestions    []string
	suggestionIdx  int

	// History
	filterIdx    int
	historyLimit int

	// UI state
	width        int
	height       int
	activeTab    Tab
	statusMsg    string
	tickInterval time.Duration
	quitting     bool
}

// ModelConfig holds the dependencies and initial settings of the TUI
type ModelConfig struct {
	Manager        *cycles.Manager
	Ledger         *history.Store
	Notifier       notify.Notifier
	DefaultMinutes int
	TickInterval   time.Duration
	HistoryLimit   int
}

// NewModel creates a new TUI model
func NewModel(cfg ModelConfig) Model {
	if cfg.Manager == nil {
		cfg.Manager = cycles.NewManager(cycles.Options{})
	}
	if cfg.Notifier == nil {
		cfg.Notifier = notify.NoopNotifier{}
	}
	if cfg.DefaultMinutes == 0 {
		cfg.DefaultMinutes = 25
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}

	return Model{
		manager:        cfg.Manager,
		ledger:         cfg.Ledger,
		notifier:       cfg.Notifier,
		defaultMinutes: cfg.DefaultMinutes,
		minutesInput:   strconv.Itoa(cfg.DefaultMinutes),
		tickInterval:   cfg.TickInterval,
		historyLimit:   cfg.HistoryLimit,
		activeTab:      TabHome,
		focus:          FieldTask,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(m.tickInterval),
		tea.SetWindowTitle(AppName),
	)
}

// TickMsg triggers a countdown update
type TickMsg time.Time

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Manager exposes the cycle manager driven by the model
func (m Model) Manager() *cycles.Manager {
	return m.manager
}

// running reports whether the active cycle is still counting down
func (m Model) running() bool {
	active, ok := m.manager.ActiveCycle()
	return ok && !active.IsTerminal()
}

// submitDisabled mirrors the start button state: no task, no start
func (m Model) submitDisabled() bool {
	return m.task == "" || m.running()
}

func (m Model) statusFilter() domain.CycleStatus {
	return statusFilters[m.filterIdx]
}
