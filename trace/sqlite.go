package trace

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/quanta-xyz/go-quanta/solve"
)

// SQLiteSink persists records to a SQLite database. Sessions are inserted
// lazily on first write, so one sink can serve many sessions over its
// lifetime.
type SQLiteSink struct {
	db   *sql.DB
	seen map[string]bool
}

// NewSQLiteSink opens (creating if needed) the database at path and
// ensures the schema exists.
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("trace: open database: %w", err)
	}
	s := &SQLiteSink{db: db, seen: make(map[string]bool)}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("trace: migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteSink) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		problem TEXT NOT NULL DEFAULT '',
		started_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		timestamp DATETIME NOT NULL,
		kind TEXT NOT NULL,
		pass INTEGER NOT NULL DEFAULT 0,
		equation TEXT NOT NULL DEFAULT '',
		variable TEXT NOT NULL DEFAULT '',
		value REAL NOT NULL DEFAULT 0,
		residual REAL NOT NULL DEFAULT 0,
		iteration INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (session_id) REFERENCES sessions(id)
	);

	CREATE INDEX IF NOT EXISTS idx_events_session ON events(session_id, seq);
	CREATE INDEX IF NOT EXISTS idx_events_variable ON events(session_id, variable);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteSink) Write(rec Record) error {
	if !s.seen[rec.Session] {
		_, err := s.db.Exec(
			`INSERT OR IGNORE INTO sessions (id, problem, started_at) VALUES (?, ?, ?)`,
			rec.Session, rec.Problem, rec.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("trace: insert session: %w", err)
		}
		s.seen[rec.Session] = true
	}
	_, err := s.db.Exec(
		`INSERT INTO events (session_id, seq, timestamp, kind, pass, equation, variable, value, residual, iteration)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Session, rec.Seq, rec.Timestamp, string(rec.Kind), rec.Pass,
		rec.Equation, rec.Variable, rec.Value, rec.Residual, rec.Iteration,
	)
	if err != nil {
		return fmt.Errorf("trace: insert event: %w", err)
	}
	return nil
}

func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

// SessionInfo is a stored session row.
type SessionInfo struct {
	ID        string
	Problem   string
	StartedAt time.Time
}

// Sessions lists stored sessions, most recent first.
func (s *SQLiteSink) Sessions() ([]SessionInfo, error) {
	rows, err := s.db.Query(`SELECT id, problem, started_at FROM sessions ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("trace: query sessions: %w", err)
	}
	defer rows.Close()
	var out []SessionInfo
	for rows.Next() {
		var info SessionInfo
		if err := rows.Scan(&info.ID, &info.Problem, &info.StartedAt); err != nil {
			return nil, fmt.Errorf("trace: scan session: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// Events returns a session's records in sequence order.
func (s *SQLiteSink) Events(sessionID string) ([]Record, error) {
	rows, err := s.db.Query(
		`SELECT seq, timestamp, kind, pass, equation, variable, value, residual, iteration
		 FROM events WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("trace: query events: %w", err)
	}
	defer rows.Close()
	var out []Record
	for rows.Next() {
		rec := Record{Session: sessionID}
		var kind string
		if err := rows.Scan(&rec.Seq, &rec.Timestamp, &kind, &rec.Pass,
			&rec.Equation, &rec.Variable, &rec.Value, &rec.Residual, &rec.Iteration); err != nil {
			return nil, fmt.Errorf("trace: scan event: %w", err)
		}
		rec.Kind = solve.EventKind(kind)
		out = append(out, rec)
	}
	return out, rows.Err()
}
