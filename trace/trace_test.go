package trace

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/quanta-xyz/go-quanta/dim"
	"github.com/quanta-xyz/go-quanta/expr"
	"github.com/quanta-xyz/go-quanta/problem"
	"github.com/quanta-xyz/go-quanta/solve"
)

func solvedProblem(t *testing.T, rec solve.Recorder) {
	t.Helper()
	p, err := problem.Build("doubler").
		Var("a", dim.Base(dim.Length)).
		Var("b", dim.Base(dim.Length)).
		Given("a", 1, "meter").
		EqFn("b", "b", func(ref func(string) expr.Node) expr.Node {
			return expr.Mul(ref("a"), expr.Num(2))
		}).
		Done()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := p.SolveWith(nil, rec); err != nil {
		t.Fatalf("solve: %v", err)
	}
}

func TestSessionStampsRecords(t *testing.T) {
	mem := NewMemorySink()
	sess := NewSession("doubler", mem)
	solvedProblem(t, sess)

	if err := sess.Err(); err != nil {
		t.Fatalf("sink error: %v", err)
	}
	recs := mem.Records()
	if len(recs) == 0 {
		t.Fatal("no records written")
	}
	for i, rec := range recs {
		if rec.Session != sess.ID() {
			t.Errorf("record %d has session %q, want %q", i, rec.Session, sess.ID())
		}
		if rec.Seq != i+1 {
			t.Errorf("record %d has seq %d, want %d", i, rec.Seq, i+1)
		}
		if rec.Problem != "doubler" {
			t.Errorf("record %d has problem %q", i, rec.Problem)
		}
	}
	if recs[0].Kind != solve.EventStart {
		t.Errorf("first record kind = %s, want start", recs[0].Kind)
	}
	if last := recs[len(recs)-1]; last.Kind != solve.EventFinish {
		t.Errorf("last record kind = %s, want finish", last.Kind)
	}
}

func TestJSONLRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONLSink(&buf)
	sess := NewSession("doubler", sink)
	solvedProblem(t, sess)
	if err := sess.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	recs, err := ReadJSONL(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(recs) == 0 {
		t.Fatal("no records decoded")
	}
	sawAssign := false
	for _, rec := range recs {
		if rec.Kind == solve.EventAssign && rec.Variable == "b" {
			sawAssign = true
			if rec.Value != 2 {
				t.Errorf("assign value = %v, want 2", rec.Value)
			}
		}
	}
	if !sawAssign {
		t.Error("no assign record for b")
	}
}

func TestSQLiteSinkPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.db")
	sink, err := NewSQLiteSink(path)
	if err != nil {
		t.Fatalf("open sink: %v", err)
	}
	defer sink.Close()

	sess := NewSession("doubler", sink)
	solvedProblem(t, sess)
	if err := sess.Err(); err != nil {
		t.Fatalf("sink error: %v", err)
	}

	sessions, err := sink.Sessions()
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != sess.ID() {
		t.Fatalf("sessions = %+v, want one with id %s", sessions, sess.ID())
	}
	if sessions[0].Problem != "doubler" {
		t.Errorf("stored problem = %q", sessions[0].Problem)
	}

	events, err := sink.Events(sess.ID())
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(events) == 0 {
		t.Fatal("no events stored")
	}
	for i, ev := range events {
		if ev.Seq != i+1 {
			t.Fatalf("event %d has seq %d, want %d", i, ev.Seq, i+1)
		}
	}
	if events[0].Kind != solve.EventStart {
		t.Errorf("first stored kind = %s, want start", events[0].Kind)
	}
}

func TestSessionFansOut(t *testing.T) {
	a, b := NewMemorySink(), NewMemorySink()
	sess := NewSession("doubler", a, b)
	solvedProblem(t, sess)
	if a.Len() == 0 || a.Len() != b.Len() {
		t.Fatalf("sink lengths differ: %d vs %d", a.Len(), b.Len())
	}
}
