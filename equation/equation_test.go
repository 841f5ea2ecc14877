package equation

import (
	"errors"
	"math"
	"testing"

	"github.com/quanta-xyz/go-quanta/dim"
	"github.com/quanta-xyz/go-quanta/expr"
	"github.com/quanta-xyz/go-quanta/unit"
	"github.com/quanta-xyz/go-quanta/variable"
)

func konst(t *testing.T, v float64, name string) expr.Node {
	t.Helper()
	u, err := unit.SI().Get(name)
	if err != nil {
		t.Fatalf("unit %q: %v", name, err)
	}
	return expr.Const(v, u)
}

func TestNewStaticDimensionCheck(t *testing.T) {
	thickness := variable.Declare("thickness", dim.Base(dim.Length))

	// Length target bound to a pressure expression must be rejected.
	_, err := New("bad", thickness, konst(t, 1, "kilopascal"))
	if !errors.Is(err, dim.ErrMismatch) {
		t.Errorf("expected dim.ErrMismatch, got %v", err)
	}

	// Matching dimensions pass.
	if _, err := New("ok", thickness, konst(t, 1, "millimeter")); err != nil {
		t.Errorf("expected success, got %v", err)
	}
}

func TestCanAttempt(t *testing.T) {
	a := variable.Declare("a", dim.Base(dim.Length))
	b := variable.Declare("b", dim.Base(dim.Length))

	eq, err := New("sum", a, expr.Add(expr.Var(b), konst(t, 1, "meter")))
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	if eq.CanAttempt() {
		t.Error("b unknown: must not be attemptable")
	}
	if err := b.Set(1).In("meter"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if !eq.CanAttempt() {
		t.Error("b known: must be attemptable")
	}
}

func TestTrySolve(t *testing.T) {
	p := variable.Declare("pressure", dim.Pressure)
	d := variable.Declare("diameter", dim.Base(dim.Length))
	s := variable.Declare("stress", dim.Pressure)
	th := variable.Declare("thickness", dim.Base(dim.Length))

	eq, err := New("barlow", th,
		expr.Div(
			expr.Mul(expr.Var(p), expr.Var(d)),
			expr.Mul(expr.Num(2), expr.Var(s)),
		))
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	// Nothing known: does not fire, no error.
	fired, err := eq.TrySolve()
	if err != nil {
		t.Fatalf("try failed: %v", err)
	}
	if fired {
		t.Fatal("must not fire with unknown inputs")
	}

	for _, set := range []error{
		p.Set(100).In("kilopascal"),
		d.Set(50).In("millimeter"),
		s.Set(138000).In("kilopascal"),
	} {
		if set != nil {
			t.Fatalf("set failed: %v", set)
		}
	}

	fired, err = eq.TrySolve()
	if err != nil {
		t.Fatalf("try failed: %v", err)
	}
	if !fired {
		t.Fatal("expected equation to fire")
	}
	if !th.IsKnown() {
		t.Fatal("target must be known after firing")
	}
	q, err := th.Quantity()
	if err != nil {
		t.Fatalf("quantity: %v", err)
	}
	wantMeters := 100e3 * 50e-3 / (2 * 138000e3)
	if math.Abs(q.Base()-wantMeters) > 1e-12 {
		t.Errorf("expected %g m, got %g", wantMeters, q.Base())
	}
	// ~0.0181 millimeter
	mm, err := q.In(unit.SI().MustGet("millimeter"))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if math.Abs(mm.Value-0.0181159420289855) > 1e-6 {
		t.Errorf("expected ~0.0181 mm, got %g", mm.Value)
	}
}

func TestTrySolveKeepsUnitPreference(t *testing.T) {
	x := variable.Declare("x", dim.Base(dim.Length))
	if err := x.Set(1).In("millimeter"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	x.SetUnknown()

	eq, err := New("fill", x, konst(t, 1, "meter"))
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	if fired, err := eq.TrySolve(); err != nil || !fired {
		t.Fatalf("expected fire, got fired=%v err=%v", fired, err)
	}
	q, _ := x.Quantity()
	if q.Unit.Name != "millimeter" {
		t.Errorf("expected result re-expressed in millimeter, got %s", q.Unit.Name)
	}
	if math.Abs(q.Value-1000) > 1e-9 {
		t.Errorf("expected 1000 mm, got %g", q.Value)
	}
}

func TestSelfReferential(t *testing.T) {
	a := variable.Declare("a", dim.Base(dim.Length))
	b := variable.Declare("b", dim.Base(dim.Length))

	direct, err := New("loop", a, expr.Add(expr.Var(a), konst(t, 1, "meter")))
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	if !direct.SelfReferential() {
		t.Error("expected self-referential")
	}

	plain, err := New("chain", a, expr.Add(expr.Var(b), konst(t, 1, "meter")))
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	if plain.SelfReferential() {
		t.Error("unexpected self-reference")
	}
}

func TestTrySolvePropagatesDimensionError(t *testing.T) {
	// Conditional hides the mismatch from the static check, evaluation
	// surfaces it.
	a := variable.Declare("a", dim.Base(dim.Length))
	cond := expr.Gt(konst(t, 2, "meter"), konst(t, 1, "meter"))
	eq, err := New("tricky", a, expr.If(cond, konst(t, 1, "kilopascal"), konst(t, 1, "meter")))
	if err != nil {
		t.Fatalf("static check should not catch this: %v", err)
	}
	if _, err := eq.TrySolve(); !errors.Is(err, dim.ErrMismatch) {
		t.Errorf("expected dim.ErrMismatch, got %v", err)
	}
}
