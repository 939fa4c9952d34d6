package history

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/hochfrequenz/cycle-timer/internal/cycles"
	"github.com/hochfrequenz/cycle-timer/internal/domain"
	_ "modernc.org/sqlite"
)

// MemoryDSN keeps the ledger for the lifetime of the process only
const MemoryDSN = ":memory:"

// Fixed width so that stored timestamps sort lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store is a SQLite-backed ledger of the cycles created in this session
type Store struct {
	db *sql.DB
}

// New opens the ledger and runs migrations
func New(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}

	// Every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts or updates a cycle
func (s *Store) Record(c domain.Cycle) error {
	_, err := s.db.Exec(`
		INSERT INTO cycles (id, task, minutes_amount, status, start_date, interrupted_date, finished_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			interrupted_date = excluded.interrupted_date,
			finished_date = excluded.finished_date
	`,
		c.ID,
		c.Task,
		c.MinutesAmount,
		string(c.Status()),
		c.StartDate.UTC().Format(timeLayout),
		formatOptional(c.InterruptedDate),
		formatOptional(c.FinishedDate),
	)
	if err != nil {
		return fmt.Errorf("recording cycle %s: %w", c.ID, err)
	}
	return nil
}

// ListOptions specifies filters for listing cycles
type ListOptions struct {
	Status domain.CycleStatus
	Limit  int
}

// List returns cycles matching opts, newest first
func (s *Store) List(opts ListOptions) ([]*domain.Cycle, error) {
	query := `SELECT id, task, minutes_amount, start_date, interrupted_date, finished_date FROM cycles WHERE 1=1`
	var args []interface{}

	if opts.Status != "" {
		query += " AND status = ?"
		args = append(args, string(opts.Status))
	}

	query += " ORDER BY start_date DESC, rowid DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Cycle
	for rows.Next() {
		c, err := scanCycle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}

	return out, rows.Err()
}

// Suggestions returns distinct task names starting with prefix, most
// recently used first
func (s *Store) Suggestions(prefix string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	pattern := escapeLike(strings.TrimSpace(prefix)) + "%"

	rows, err := s.db.Query(`
		SELECT task FROM cycles
		WHERE task LIKE ? ESCAPE '\'
		GROUP BY task
		ORDER BY MAX(start_date) DESC
		LIMIT ?
	`, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []string
	for rows.Next() {
		var task string
		if err := rows.Scan(&task); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// Stats summarizes the ledger
type Stats struct {
	Total          int
	InProgress     int
	Interrupted    int
	Finished       int
	FocusedMinutes int
}

// Stats counts cycles per status and sums the minutes of finished cycles
func (s *Store) Stats() (Stats, error) {
	rows, err := s.db.Query(`SELECT status, COUNT(*), COALESCE(SUM(minutes_amount), 0) FROM cycles GROUP BY status`)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()

	var st Stats
	for rows.Next() {
		var status string
		var count, minutes int
		if err := rows.Scan(&status, &count, &minutes); err != nil {
			return Stats{}, err
		}
		st.Total += count
		switch domain.CycleStatus(status) {
		case domain.StatusInProgress:
			st.InProgress = count
		case domain.StatusInterrupted:
			st.Interrupted = count
		case domain.StatusFinished:
			st.Finished = count
			st.FocusedMinutes = minutes
		}
	}
	return st, rows.Err()
}

// Attach mirrors every manager transition into the ledger. Write failures
// are logged and never reach the manager.
func (s *Store) Attach(m *cycles.Manager) {
	m.Subscribe(func(ch cycles.Change) {
		if err := s.Record(ch.Cycle); err != nil {
			log.Printf("history: %s cycle %s: %v", ch.Type, ch.Cycle.ID, err)
		}
	})
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanCycle(row scanner) (*domain.Cycle, error) {
	var c domain.Cycle
	var start string
	var interrupted, finished sql.NullString

	if err := row.Scan(&c.ID, &c.Task, &c.MinutesAmount, &start, &interrupted, &finished); err != nil {
		return nil, err
	}

	var err error
	if c.StartDate, err = time.Parse(timeLayout, start); err != nil {
		return nil, fmt.Errorf("parsing start_date of %s: %w", c.ID, err)
	}
	if c.InterruptedDate, err = parseOptional(interrupted); err != nil {
		return nil, fmt.Errorf("parsing interrupted_date of %s: %w", c.ID, err)
	}
	if c.FinishedDate, err = parseOptional(finished); err != nil {
		return nil, fmt.Errorf("parsing finished_date of %s: %w", c.ID, err)
	}

	return &c, nil
}

func formatOptional(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(timeLayout)
}

func parseOptional(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	t, err := time.Parse(timeLayout, ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
