package cycles

import (
	"time"

	"github.com/google/uuid"
	"github.com/hochfrequenz/cycle-timer/internal/domain"
)

// ChangeType describes which transition a Change reports
type ChangeType int

const (
	ChangeCreated ChangeType = iota
	ChangeInterrupted
	ChangeFinished
)

func (t ChangeType) String() string {
	switch t {
	case ChangeCreated:
		return "created"
	case ChangeInterrupted:
		return "interrupted"
	case ChangeFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Change is delivered to listeners after a transition
type Change struct {
	Type  ChangeType
	Cycle domain.Cycle
}

// Listener observes manager transitions
type Listener func(Change)

// Options configures a Manager
type Options struct {
	// Now defaults to time.Now
	Now func() time.Time
	// NewID receives the creation time and defaults to UUIDv7 strings
	// stamped with it
	NewID func(at time.Time) string
}

// Manager owns the cycle state. It is not safe for concurrent use: every
// call must come from the same event loop.
type Manager struct {
	state     State
	now       func() time.Time
	newID     func(time.Time) string
	listeners []Listener
}

// NewManager creates an empty Manager
func NewManager(opts Options) *Manager {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = newTimeOrderedID
	}
	return &Manager{now: opts.Now, newID: opts.NewID}
}

// newTimeOrderedID returns a UUIDv7 whose 48-bit timestamp is at instead of
// the wall clock
func newTimeOrderedID(at time.Time) string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	ms := uint64(at.UnixMilli())
	for i := 0; i < 6; i++ {
		id[i] = byte(ms >> (40 - 8*i))
	}
	return id.String()
}

// Subscribe registers a listener called synchronously after each transition
func (m *Manager) Subscribe(l Listener) {
	m.listeners = append(m.listeners, l)
}

func (m *Manager) dispatch(action Action) {
	m.state = Reduce(m.state, action)
}

func (m *Manager) emit(t ChangeType, c domain.Cycle) {
	for _, l := range m.listeners {
		l(Change{Type: t, Cycle: c})
	}
}

// CreateCycle validates the input, appends a new cycle, makes it active and
// resets the elapsed counter
func (m *Manager) CreateCycle(task string, minutesAmount int) (domain.Cycle, error) {
	in := domain.NewCycleInput{Task: task, MinutesAmount: minutesAmount}
	if err := in.Validate(); err != nil {
		return domain.Cycle{}, err
	}
	in = in.Normalize()

	start := m.now()
	c := domain.Cycle{
		ID:            m.newID(start),
		Task:          in.Task,
		MinutesAmount: in.MinutesAmount,
		StartDate:     start,
	}
	m.dispatch(AddNewCycle(c))
	m.emit(ChangeCreated, c)
	return c, nil
}

// InterruptActiveCycle interrupts the active cycle and clears the active id.
// It reports false when there was nothing to interrupt.
func (m *Manager) InterruptActiveCycle() (domain.Cycle, bool) {
	active, ok := m.state.ActiveCycle()
	if !ok {
		return domain.Cycle{}, false
	}
	m.dispatch(InterruptCurrentCycle(m.now()))
	if active.IsTerminal() {
		// A finished cycle that is still active only loses its active flag.
		return domain.Cycle{}, false
	}
	c := m.find(active.ID)
	m.emit(ChangeInterrupted, c)
	return c, true
}

// MarkActiveCycleFinished sets the completion time of the active cycle. The
// active id is kept.
func (m *Manager) MarkActiveCycleFinished() (domain.Cycle, bool) {
	active, ok := m.state.ActiveCycle()
	if !ok || active.IsTerminal() {
		return domain.Cycle{}, false
	}
	m.dispatch(MarkCurrentCycleAsFinished(m.now()))
	c := m.find(active.ID)
	m.emit(ChangeFinished, c)
	return c, true
}

// SetElapsedSeconds overwrites the elapsed counter of the active cycle
func (m *Manager) SetElapsedSeconds(n int) {
	m.state.AmountSecondsPassed = n
}

// ElapsedSeconds returns the elapsed counter
func (m *Manager) ElapsedSeconds() int {
	return m.state.AmountSecondsPassed
}

// ActiveCycleID returns the active id or ""
func (m *Manager) ActiveCycleID() string {
	return m.state.ActiveCycleID
}

// ActiveCycle returns a copy of the active cycle
func (m *Manager) ActiveCycle() (domain.Cycle, bool) {
	return m.state.ActiveCycle()
}

// Cycles returns a copy of the cycle list in creation order
func (m *Manager) Cycles() []domain.Cycle {
	out := make([]domain.Cycle, len(m.state.Cycles))
	copy(out, m.state.Cycles)
	return out
}

// State returns a snapshot of the manager state
func (m *Manager) State() State {
	s := m.state
	s.Cycles = m.Cycles()
	return s
}

// Now returns the manager clock's current time
func (m *Manager) Now() time.Time {
	return m.now()
}

func (m *Manager) find(id string) domain.Cycle {
	for _, c := range m.state.Cycles {
		if c.ID == id {
			return c
		}
	}
	return domain.Cycle{}
}
