package solve

import (
	"errors"
	"math"
	"testing"

	"github.com/quanta-xyz/go-quanta/depgraph"
	"github.com/quanta-xyz/go-quanta/dim"
	"github.com/quanta-xyz/go-quanta/equation"
	"github.com/quanta-xyz/go-quanta/expr"
	"github.com/quanta-xyz/go-quanta/unit"
	"github.com/quanta-xyz/go-quanta/variable"
)

func mustEq(t *testing.T, name string, target *variable.Variable, node expr.Node) *equation.Equation {
	t.Helper()
	eq, err := equation.New(name, target, node)
	if err != nil {
		t.Fatalf("equation %s: %v", name, err)
	}
	return eq
}

func mustGraph(t *testing.T, eqs ...*equation.Equation) *depgraph.Graph {
	t.Helper()
	g, err := depgraph.Build(eqs)
	if err != nil {
		t.Fatalf("build graph: %v", err)
	}
	return g
}

func mustSet(t *testing.T, v *variable.Variable, mag float64, unitName string) {
	t.Helper()
	if err := v.Set(mag).In(unitName); err != nil {
		t.Fatalf("set %s: %v", v.Name(), err)
	}
}

func baseValue(t *testing.T, v *variable.Variable) float64 {
	t.Helper()
	q, err := v.Quantity()
	if err != nil {
		t.Fatalf("%s: %v", v.Name(), err)
	}
	return q.Base()
}

func TestSubstitutionChain(t *testing.T) {
	a := variable.Declare("a", dim.Base(dim.Length))
	b := variable.Declare("b", dim.Base(dim.Length))
	c := variable.Declare("c", dim.Base(dim.Length))
	d := variable.Declare("d", dim.Base(dim.Length))
	mustSet(t, a, 1, "meter")
	mustSet(t, b, 500, "millimeter")

	// Declared in dependency-reversed order so the first scan can only
	// fire one of them; convergence needs multiple passes.
	eqD := mustEq(t, "d", d, expr.Mul(expr.Var(c), expr.Num(2)))
	eqC := mustEq(t, "c", c, expr.Add(expr.Var(a), expr.Var(b)))
	g := mustGraph(t, eqD, eqC)

	res, err := Solve(g, nil)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if res.Status != StatusSuccess || !res.FullySolved() {
		t.Fatalf("status = %s, unresolved = %v", res.Status, res.Unresolved)
	}
	if got := baseValue(t, c); math.Abs(got-1.5) > 1e-12 {
		t.Errorf("c = %v, want 1.5", got)
	}
	if got := baseValue(t, d); math.Abs(got-3.0) > 1e-12 {
		t.Errorf("d = %v, want 3.0", got)
	}
	if res.Passes < 3 {
		t.Errorf("passes = %d, want at least 3 (two productive, one empty)", res.Passes)
	}
	if res.States["d"] != StateKnown {
		t.Errorf("state of d = %s, want known", res.States["d"])
	}
}

func TestLinearCycleConverges(t *testing.T) {
	a := variable.Declare("a", dim.Base(dim.Length))
	b := variable.Declare("b", dim.Base(dim.Length))
	meter := unit.SI().MustGet("meter")

	eqA := mustEq(t, "a", a, expr.Add(expr.Var(b), expr.Const(1, meter)))
	eqB := mustEq(t, "b", b, expr.Sub(expr.Var(a), expr.Const(1, meter)))
	g := mustGraph(t, eqA, eqB)

	res, err := Solve(g, nil)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if !res.FullySolved() {
		t.Fatalf("unresolved: %v (failures: %v)", res.Unresolved, res.Failures)
	}
	av, bv := baseValue(t, a), baseValue(t, b)
	if math.Abs(av-bv-1) > 1e-6 {
		t.Errorf("a - b = %v, want 1", av-bv)
	}
	if res.Iterations == 0 {
		t.Error("expected the simultaneous path, got none")
	}
}

func TestNonlinearCycle(t *testing.T) {
	// a = 10/b, b = a - 3 has roots (5, 2) and (-2, -5); the seed picks
	// the positive branch.
	a := variable.Declare("a", dim.Dimensionless)
	b := variable.Declare("b", dim.Dimensionless)
	mustSet(t, a, 4, "dimensionless")
	mustSet(t, b, 1, "dimensionless")
	a.SetUnknown()
	b.SetUnknown()

	eqA := mustEq(t, "a", a, expr.Div(expr.Num(10), expr.Var(b)))
	eqB := mustEq(t, "b", b, expr.Sub(expr.Var(a), expr.Num(3)))
	g := mustGraph(t, eqA, eqB)

	res, err := Solve(g, DefaultOptions())
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if !res.FullySolved() {
		t.Fatalf("unresolved: %v (failures: %v)", res.Unresolved, res.Failures)
	}
	if got := baseValue(t, a); math.Abs(got-5) > 1e-6 {
		t.Errorf("a = %v, want 5", got)
	}
	if got := baseValue(t, b); math.Abs(got-2) > 1e-6 {
		t.Errorf("b = %v, want 2", got)
	}
	if res.States["a"] != StateKnown || res.States["b"] != StateKnown {
		t.Errorf("states = %v, want both known", res.States)
	}
}

func TestSelfReferentialEquation(t *testing.T) {
	// x = (x + 9/x) / 2 converges to 3 from a positive seed.
	x := variable.Declare("x", dim.Dimensionless)
	mustSet(t, x, 1, "dimensionless")
	x.SetUnknown()

	eq := mustEq(t, "x", x, expr.Div(
		expr.Add(expr.Var(x), expr.Div(expr.Num(9), expr.Var(x))),
		expr.Num(2),
	))
	g := mustGraph(t, eq)

	res, err := Solve(g, nil)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if !res.FullySolved() {
		t.Fatalf("unresolved: %v", res.Unresolved)
	}
	if got := baseValue(t, x); math.Abs(got-3) > 1e-6 {
		t.Errorf("x = %v, want 3", got)
	}
}

func TestInconsistentCycle(t *testing.T) {
	a := variable.Declare("a", dim.Dimensionless)
	b := variable.Declare("b", dim.Dimensionless)

	// a = b + 1 and b = a + 1 cannot both hold.
	eqA := mustEq(t, "a", a, expr.Add(expr.Var(b), expr.Num(1)))
	eqB := mustEq(t, "b", b, expr.Add(expr.Var(a), expr.Num(1)))
	g := mustGraph(t, eqA, eqB)

	res, err := Solve(g, FastOptions())
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if res.Status != StatusPartial {
		t.Fatalf("status = %s, want partial", res.Status)
	}
	if len(res.Failures) != 1 {
		t.Fatalf("failures = %d, want 1", len(res.Failures))
	}
	if !errors.Is(res.Failures[0], ErrNoConvergence) {
		t.Errorf("failure does not match ErrNoConvergence: %v", res.Failures[0])
	}
	if a.IsKnown() || b.IsKnown() {
		t.Error("failed iteration must leave its variables unknown")
	}
	if res.States["a"] != StateUnresolved {
		t.Errorf("state of a = %s, want unresolved", res.States["a"])
	}
	if _, ok := res.Residuals["a"]; !ok {
		t.Error("missing residual for a")
	}
}

func TestUnderdetermined(t *testing.T) {
	a := variable.Declare("a", dim.Base(dim.Length))
	b := variable.Declare("b", dim.Base(dim.Length))
	c := variable.Declare("c", dim.Base(dim.Length))
	mustSet(t, a, 2, "meter")

	eq := mustEq(t, "c", c, expr.Add(expr.Var(a), expr.Var(b)))
	g := mustGraph(t, eq)

	res, err := Solve(g, nil)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if res.Status != StatusPartial {
		t.Fatalf("status = %s, want partial", res.Status)
	}
	if len(res.Unresolved) != 2 {
		t.Fatalf("unresolved = %v, want b and c", res.Unresolved)
	}
	if len(res.Failures) != 0 {
		t.Errorf("underdetermination is not a convergence failure: %v", res.Failures)
	}

	// The same graph under RequireFull is an error.
	opts := DefaultOptions()
	opts.RequireFull = true
	_, err = Solve(g, opts)
	if !errors.Is(err, ErrUnresolved) {
		t.Fatalf("err = %v, want ErrUnresolved", err)
	}
	var ue *UnresolvedError
	if !errors.As(err, &ue) || len(ue.Names) != 2 {
		t.Fatalf("unexpected error detail: %v", err)
	}
}

func TestSolveIsIdempotent(t *testing.T) {
	a := variable.Declare("a", dim.Base(dim.Length))
	b := variable.Declare("b", dim.Base(dim.Length))
	mustSet(t, a, 1, "meter")

	eq := mustEq(t, "b", b, expr.Mul(expr.Var(a), expr.Num(2)))
	g := mustGraph(t, eq)

	if _, err := Solve(g, nil); err != nil {
		t.Fatalf("first solve: %v", err)
	}
	first := baseValue(t, b)

	res, err := Solve(g, nil)
	if err != nil {
		t.Fatalf("second solve: %v", err)
	}
	if len(res.Solved) != 0 {
		t.Errorf("second solve assigned %v, want nothing", res.Solved)
	}
	if got := baseValue(t, b); got != first {
		t.Errorf("b changed across solves: %v -> %v", first, got)
	}
}

func TestEvaluationErrorAborts(t *testing.T) {
	// The conditional's branches disagree dimensionally, so the mismatch
	// is invisible statically and must surface during solving.
	a := variable.Declare("a", dim.Base(dim.Length))
	b := variable.Declare("b", dim.Base(dim.Time))
	c := variable.Declare("c", dim.Base(dim.Length))
	mustSet(t, a, -1, "meter")
	mustSet(t, b, 5, "second")

	meter := unit.SI().MustGet("meter")
	eq := mustEq(t, "c", c, expr.If(
		expr.Gt(expr.Var(a), expr.Const(0, meter)),
		expr.Var(a),
		expr.Var(b),
	))
	g := mustGraph(t, eq)

	_, err := Solve(g, nil)
	if !errors.Is(err, dim.ErrMismatch) {
		t.Fatalf("err = %v, want a dimension mismatch", err)
	}
	if c.IsKnown() {
		t.Error("c must stay unknown after an aborted solve")
	}
}

func TestRecorderSeesLifecycle(t *testing.T) {
	a := variable.Declare("a", dim.Base(dim.Length))
	b := variable.Declare("b", dim.Base(dim.Length))
	mustSet(t, a, 1, "meter")

	eq := mustEq(t, "b", b, expr.Mul(expr.Var(a), expr.Num(2)))
	g := mustGraph(t, eq)

	var kinds []EventKind
	rec := RecorderFunc(func(ev Event) { kinds = append(kinds, ev.Kind) })
	if _, err := SolveRecorded(g, nil, rec); err != nil {
		t.Fatalf("solve: %v", err)
	}

	if len(kinds) == 0 || kinds[0] != EventStart || kinds[len(kinds)-1] != EventFinish {
		t.Fatalf("event kinds = %v, want start ... finish", kinds)
	}
	sawAssign := false
	for _, k := range kinds {
		if k == EventAssign {
			sawAssign = true
		}
	}
	if !sawAssign {
		t.Errorf("no assign event recorded: %v", kinds)
	}
}

func TestResultPreferredUnitsKept(t *testing.T) {
	// A variable that held a value in kilometers before being reset gets
	// its simultaneous-path answer back in kilometers.
	a := variable.Declare("a", dim.Base(dim.Length))
	b := variable.Declare("b", dim.Base(dim.Length))
	mustSet(t, a, 0.002, "kilometer")
	a.SetUnknown()

	meter := unit.SI().MustGet("meter")
	eqA := mustEq(t, "a", a, expr.Sub(expr.Var(b), expr.Const(1, meter)))
	eqB := mustEq(t, "b", b, expr.Add(expr.Var(a), expr.Const(1, meter)))
	g := mustGraph(t, eqA, eqB)

	res, err := Solve(g, nil)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if !res.FullySolved() {
		t.Fatalf("unresolved: %v (failures: %v)", res.Unresolved, res.Failures)
	}
	q, err := a.Quantity()
	if err != nil {
		t.Fatalf("a: %v", err)
	}
	if q.Unit.Name != "kilometer" {
		t.Errorf("a came back in %q, want kilometer", q.Unit.Name)
	}
}
