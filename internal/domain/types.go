package domain

// CycleStatus represents the lifecycle state of a cycle
type CycleStatus string

const (
	StatusInProgress  CycleStatus = "in_progress"
	StatusInterrupted CycleStatus = "interrupted"
	StatusFinished    CycleStatus = "finished"
)

// Label returns the human readable status used in the history table
func (s CycleStatus) Label() string {
	switch s {
	case StatusInProgress:
		return "In progress"
	case StatusInterrupted:
		return "Interrupted"
	case StatusFinished:
		return "Finished"
	default:
		return string(s)
	}
}

const (
	// MinMinutes is the shortest cycle that can be created
	MinMinutes = 1
	// MaxMinutes is the longest cycle that can be created
	MaxMinutes = 60
	// MinutesStep is the increment used by the minutes stepper
	MinutesStep = 5
)
