package domain

import (
	"strings"
	"time"
)

// Cycle represents one timed task session
type Cycle struct {
	ID              string
	Task            string
	MinutesAmount   int
	StartDate       time.Time
	InterruptedDate *time.Time
	FinishedDate    *time.Time
}

// Status derives the lifecycle state from the timestamps
func (c *Cycle) Status() CycleStatus {
	switch {
	case c.InterruptedDate != nil:
		return StatusInterrupted
	case c.FinishedDate != nil:
		return StatusFinished
	default:
		return StatusInProgress
	}
}

// IsTerminal returns true once the cycle was interrupted or finished
func (c *Cycle) IsTerminal() bool {
	return c.InterruptedDate != nil || c.FinishedDate != nil
}

// Duration returns the requested length of the cycle
func (c *Cycle) Duration() time.Duration {
	return time.Duration(c.MinutesAmount) * time.Minute
}

// EndedAt returns the interruption or completion time, if any
func (c *Cycle) EndedAt() *time.Time {
	if c.InterruptedDate != nil {
		return c.InterruptedDate
	}
	return c.FinishedDate
}

// NewCycleInput holds the values submitted by the new cycle form
type NewCycleInput struct {
	Task          string
	MinutesAmount int
}

// Normalize trims the task name
func (in NewCycleInput) Normalize() NewCycleInput {
	in.Task = strings.TrimSpace(in.Task)
	return in
}

// Validate checks the input and returns a *ValidationError listing every
// offending field, or nil
func (in NewCycleInput) Validate() error {
	in = in.Normalize()
	verr := &ValidationError{}

	if in.Task == "" {
		verr.add(FieldTask, ErrTaskRequired)
	}
	switch {
	case in.MinutesAmount < MinMinutes:
		verr.add(FieldMinutesAmount, ErrMinutesTooShort)
	case in.MinutesAmount > MaxMinutes:
		verr.add(FieldMinutesAmount, ErrMinutesTooLong)
	}

	if len(verr.Fields) == 0 {
		return nil
	}
	return verr
}
