package history

import (
	"fmt"
	"testing"
	"time"

	"github.com/hochfrequenz/cycle-timer/internal/cycles"
	"github.com/hochfrequenz/cycle-timer/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(MemoryDSN)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_RecordUpserts(t *testing.T) {
	store := newTestStore(t)
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(25 * time.Minute)

	c := domain.Cycle{ID: "a", Task: "Write report", MinutesAmount: 25, StartDate: start}
	if err := store.Record(c); err != nil {
		t.Fatal(err)
	}

	c.FinishedDate = &end
	if err := store.Record(c); err != nil {
		t.Fatal(err)
	}

	list, err := store.List(ListOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("List() returned %d cycles, want 1", len(list))
	}
	got := list[0]
	if got.Task != "Write report" {
		t.Errorf("Task = %q, want %q", got.Task, "Write report")
	}
	if !got.StartDate.Equal(start) {
		t.Errorf("StartDate = %v, want %v", got.StartDate, start)
	}
	if got.FinishedDate == nil || !got.FinishedDate.Equal(end) {
		t.Errorf("FinishedDate = %v, want %v", got.FinishedDate, end)
	}
	if got.InterruptedDate != nil {
		t.Errorf("InterruptedDate = %v, want nil", got.InterruptedDate)
	}
	if got.Status() != domain.StatusFinished {
		t.Errorf("Status = %q, want finished", got.Status())
	}
}

func TestStore_List(t *testing.T) {
	store := newTestStore(t)
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	stop := start.Add(time.Hour)

	list := []domain.Cycle{
		{ID: "a", Task: "A", MinutesAmount: 25, StartDate: start, FinishedDate: &stop},
		{ID: "b", Task: "B", MinutesAmount: 10, StartDate: start.Add(500 * time.Millisecond), InterruptedDate: &stop},
		{ID: "c", Task: "C", MinutesAmount: 5, StartDate: start.Add(2 * time.Second)},
	}
	for _, c := range list {
		if err := store.Record(c); err != nil {
			t.Fatal(err)
		}
	}

	all, err := store.List(ListOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("List() count = %d, want 3", len(all))
	}
	if all[0].ID != "c" || all[1].ID != "b" || all[2].ID != "a" {
		t.Errorf("List() order = %s,%s,%s, want c,b,a", all[0].ID, all[1].ID, all[2].ID)
	}

	finished, err := store.List(ListOptions{Status: domain.StatusFinished})
	if err != nil {
		t.Fatal(err)
	}
	if len(finished) != 1 || finished[0].ID != "a" {
		t.Errorf("List(finished) = %v, want [a]", finished)
	}

	limited, err := store.List(ListOptions{Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Errorf("List(limit 2) count = %d, want 2", len(limited))
	}
}

func TestStore_Suggestions(t *testing.T) {
	store := newTestStore(t)
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	tasks := []string{"Review PR", "Write docs", "Review PR", "Refactor 100%_done"}
	for i, task := range tasks {
		c := domain.Cycle{ID: fmt.Sprintf("c%d", i), Task: task, MinutesAmount: 5, StartDate: start.Add(time.Duration(i) * time.Minute)}
		if err := store.Record(c); err != nil {
			t.Fatal(err)
		}
	}

	got, err := store.Suggestions("Re", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("Suggestions(Re) = %v, want 2 entries", got)
	}
	if got[0] != "Refactor 100%_done" || got[1] != "Review PR" {
		t.Errorf("Suggestions(Re) = %v", got)
	}

	got, err = store.Suggestions("Refactor 100%", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("Suggestions with wildcard chars = %v, want 1 entry", got)
	}

	got, err = store.Suggestions("", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("Suggestions(\"\") = %v, want 3 distinct tasks", got)
	}
}

func TestStore_AttachAndStats(t *testing.T) {
	store := newTestStore(t)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	m := cycles.NewManager(cycles.Options{Now: func() time.Time { return now }})
	store.Attach(m)

	m.CreateCycle("A", 25)
	now = now.Add(25 * time.Minute)
	m.MarkActiveCycleFinished()
	now = now.Add(time.Minute)
	m.CreateCycle("B", 10)
	now = now.Add(time.Minute)
	m.InterruptActiveCycle()
	now = now.Add(time.Minute)
	m.CreateCycle("C", 5)

	st, err := store.Stats()
	if err != nil {
		t.Fatal(err)
	}
	want := Stats{Total: 3, InProgress: 1, Interrupted: 1, Finished: 1, FocusedMinutes: 25}
	if st != want {
		t.Errorf("Stats() = %+v, want %+v", st, want)
	}

	list, err := store.List(ListOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != len(m.Cycles()) {
		t.Errorf("ledger has %d cycles, manager has %d", len(list), len(m.Cycles()))
	}
}

func TestNewRow(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	c := &domain.Cycle{ID: "a", Task: "Task", MinutesAmount: 20, StartDate: now.Add(-3 * time.Minute)}

	row := NewRow(c, now)
	if row.Duration != "20 min" {
		t.Errorf("Duration = %q, want %q", row.Duration, "20 min")
	}
	if row.Start != "3 minutes ago" {
		t.Errorf("Start = %q, want %q", row.Start, "3 minutes ago")
	}
	if row.Status != domain.StatusInProgress {
		t.Errorf("Status = %q, want in_progress", row.Status)
	}
}
