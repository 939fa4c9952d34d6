package cycles

import "github.com/hochfrequenz/cycle-timer/internal/domain"

// State is the cycle list, the active cycle pointer and the elapsed counter
type State struct {
	Cycles              []domain.Cycle
	ActiveCycleID       string
	AmountSecondsPassed int
}

// ActiveCycle returns a copy of the active cycle, if any
func (s State) ActiveCycle() (domain.Cycle, bool) {
	if s.ActiveCycleID == "" {
		return domain.Cycle{}, false
	}
	for _, c := range s.Cycles {
		if c.ID == s.ActiveCycleID {
			return c, true
		}
	}
	return domain.Cycle{}, false
}

// Reduce applies an action and returns the next state. The input state is
// never modified; cycles that change are copied.
func Reduce(state State, action Action) State {
	switch action.Type {
	case ActionAddNewCycle:
		if action.NewCycle == nil {
			return state
		}
		next := make([]domain.Cycle, len(state.Cycles), len(state.Cycles)+1)
		copy(next, state.Cycles)
		return State{
			Cycles:              append(next, *action.NewCycle),
			ActiveCycleID:       action.NewCycle.ID,
			AmountSecondsPassed: 0,
		}

	case ActionInterruptCurrentCycle:
		if state.ActiveCycleID == "" {
			return state
		}
		at := action.At
		state.Cycles = mapActive(state, func(c *domain.Cycle) {
			c.InterruptedDate = &at
		})
		state.ActiveCycleID = ""
		return state

	case ActionMarkCurrentCycleAsFinished:
		if state.ActiveCycleID == "" {
			return state
		}
		at := action.At
		// The active id is left in place after completion.
		state.Cycles = mapActive(state, func(c *domain.Cycle) {
			c.FinishedDate = &at
		})
		return state
	}

	return state
}

// mapActive returns a copy of the cycle list with fn applied to the active,
// non-terminal cycle
func mapActive(state State, fn func(*domain.Cycle)) []domain.Cycle {
	next := make([]domain.Cycle, len(state.Cycles))
	copy(next, state.Cycles)
	for i := range next {
		if next[i].ID == state.ActiveCycleID && !next[i].IsTerminal() {
			fn(&next[i])
		}
	}
	return next
}
