// Package countdown turns the active cycle and the elapsed counter into the
// remaining time shown on screen, and advances the counter on each tick.
package countdown

import (
	"fmt"
	"time"

	"github.com/hochfrequenz/cycle-timer/internal/cycles"
	"github.com/hochfrequenz/cycle-timer/internal/domain"
)

// Result reports what a Tick did
type Result int

const (
	// Idle means there is no active cycle
	Idle Result = iota
	// Running means the elapsed counter was updated
	Running
	// Finished means this tick completed the active cycle
	Finished
	// Done means the active cycle had already finished
	Done
)

func (r Result) String() string {
	switch r {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Finished:
		return "finished"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Source is the part of the cycle manager a countdown reads and drives
type Source interface {
	ActiveCycle() (domain.Cycle, bool)
	ElapsedSeconds() int
	SetElapsedSeconds(n int)
	MarkActiveCycleFinished() (domain.Cycle, bool)
}

var _ Source = (*cycles.Manager)(nil)

// TotalSeconds returns the requested length of c in seconds
func TotalSeconds(c domain.Cycle) int {
	return int(c.Duration() / time.Second)
}

// Tick recomputes the elapsed seconds of the active cycle from its start
// date. When the full duration has passed the cycle is marked finished and
// the counter is pinned to the total.
func Tick(src Source, now time.Time) Result {
	active, ok := src.ActiveCycle()
	if !ok {
		return Idle
	}
	if active.FinishedDate != nil {
		return Done
	}
	if active.InterruptedDate != nil {
		return Idle
	}

	total := TotalSeconds(active)
	diff := int(now.Sub(active.StartDate) / time.Second)
	if diff < 0 {
		diff = 0
	}

	if diff >= total {
		src.MarkActiveCycleFinished()
		src.SetElapsedSeconds(total)
		return Finished
	}

	src.SetElapsedSeconds(diff)
	return Running
}

// RemainingSeconds returns the seconds left on the active cycle, or 0
func RemainingSeconds(src Source) int {
	active, ok := src.ActiveCycle()
	if !ok {
		return 0
	}
	remaining := TotalSeconds(active) - src.ElapsedSeconds()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Format renders seconds as MM:SS
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Digits splits seconds into the four digits of the MM:SS display
func Digits(seconds int) [4]byte {
	s := Format(seconds)
	return [4]byte{s[0], s[1], s[3], s[4]}
}

// Progress returns the fraction of the active cycle already elapsed
func Progress(src Source) float64 {
	active, ok := src.ActiveCycle()
	if !ok {
		return 0
	}
	total := TotalSeconds(active)
	if total == 0 {
		return 0
	}
	p := float64(src.ElapsedSeconds()) / float64(total)
	if p > 1 {
		return 1
	}
	return p
}

// WindowTitle returns the remaining time while a cycle runs and fallback
// otherwise
func WindowTitle(src Source, fallback string) string {
	active, ok := src.ActiveCycle()
	if !ok || active.IsTerminal() {
		return fallback
	}
	return Format(RemainingSeconds(src))
}
