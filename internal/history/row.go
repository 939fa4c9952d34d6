package history

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hochfrequenz/cycle-timer/internal/domain"
)

// Row is one line of the history table
type Row struct {
	Task     string
	Duration string
	Start    string
	Status   domain.CycleStatus
}

// Columns are the history table headers
var Columns = []string{"Task", "Duration", "Start", "Status"}

// NewRow formats c for display relative to now
func NewRow(c *domain.Cycle, now time.Time) Row {
	return Row{
		Task:     c.Task,
		Duration: fmt.Sprintf("%d min", c.MinutesAmount),
		Start:    humanize.RelTime(c.StartDate, now, "ago", "from now"),
		Status:   c.Status(),
	}
}

// Rows formats a list of cycles
func Rows(list []*domain.Cycle, now time.Time) []Row {
	rows := make([]Row, 0, len(list))
	for _, c := range list {
		rows = append(rows, NewRow(c, now))
	}
	return rows
}
