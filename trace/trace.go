// Package trace records solver runs for later inspection. A Session stamps
// every engine event with a unique id and a sequence number and fans it out
// to one or more sinks: in-memory for tests, JSONL for ad-hoc analysis,
// SQLite for durable audit trails.
package trace

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quanta-xyz/go-quanta/solve"
)

// Record is one engine event enriched with session context.
type Record struct {
	Session   string    `json:"session"`
	Problem   string    `json:"problem,omitempty"`
	Seq       int       `json:"seq"`
	Timestamp time.Time `json:"timestamp"`

	solve.Event
}

// Sink receives records. Implementations decide durability; a failed write
// is remembered by the session, not raised into the solver.
type Sink interface {
	Write(rec Record) error
	Close() error
}

// Session implements solve.Recorder. It is safe for use from a single
// solve at a time; the mutex exists so sinks shared across sessions do not
// interleave partial records.
type Session struct {
	id      string
	problem string
	started time.Time

	mu    sync.Mutex
	seq   int
	sinks []Sink
	err   error
}

// NewSession starts a session for the named problem, fanning records out
// to the given sinks.
func NewSession(problem string, sinks ...Sink) *Session {
	return &Session{
		id:      uuid.New().String(),
		problem: problem,
		started: time.Now(),
		sinks:   sinks,
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// StartedAt returns when the session was created.
func (s *Session) StartedAt() time.Time { return s.started }

// Record stamps the event and writes it to every sink. Sink failures are
// retained (first one wins) and readable through Err; the solve itself is
// never interrupted by a recording problem.
func (s *Session) Record(ev solve.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	rec := Record{
		Session:   s.id,
		Problem:   s.problem,
		Seq:       s.seq,
		Timestamp: time.Now().UTC(),
		Event:     ev,
	}
	for _, sink := range s.sinks {
		if err := sink.Write(rec); err != nil && s.err == nil {
			s.err = err
		}
	}
}

// Err returns the first sink failure, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close closes every sink, returning the first error.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var first error
	for _, sink := range s.sinks {
		if err := sink.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
