package cycles

import (
	"time"

	"github.com/hochfrequenz/cycle-timer/internal/domain"
)

// ActionType identifies a reducer action
type ActionType string

const (
	ActionAddNewCycle                ActionType = "ADD_NEW_CYCLE"
	ActionInterruptCurrentCycle      ActionType = "INTERRUPT_CURRENT_CYCLE"
	ActionMarkCurrentCycleAsFinished ActionType = "MARK_CURRENT_CYCLE_AS_FINISHED"
)

// Action is dispatched to Reduce. At is the time the event happened.
type Action struct {
	Type     ActionType
	NewCycle *domain.Cycle
	At       time.Time
}

// AddNewCycle returns an action appending c and making it active
func AddNewCycle(c domain.Cycle) Action {
	return Action{Type: ActionAddNewCycle, NewCycle: &c, At: c.StartDate}
}

// InterruptCurrentCycle returns an action interrupting the active cycle at t
func InterruptCurrentCycle(t time.Time) Action {
	return Action{Type: ActionInterruptCurrentCycle, At: t}
}

// MarkCurrentCycleAsFinished returns an action finishing the active cycle at t
func MarkCurrentCycleAsFinished(t time.Time) Action {
	return Action{Type: ActionMarkCurrentCycleAsFinished, At: t}
}
