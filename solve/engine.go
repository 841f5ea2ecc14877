package solve

import (
	"github.com/quanta-xyz/go-quanta/depgraph"
	"github.com/quanta-xyz/go-quanta/variable"
)

// Solve drives the graph's equations to a fixed point. Substitution first:
// repeated full scans firing every equation whose inputs are known. What
// remains is grouped into coupled components; cyclic ones go through the
// simultaneous solver, underdetermined ones are reported unresolved.
//
// Hard failures (dimension mismatches surfacing at evaluation) abort the
// solve. Unresolved variables and convergence misses do not: they are
// collected in the Result, and only promoted to an error when
// opts.RequireFull is set.
func Solve(g *depgraph.Graph, opts *Options) (*Result, error) {
	return SolveRecorded(g, opts, nil)
}

// SolveRecorded is Solve with every engine step emitted to rec.
func SolveRecorded(g *depgraph.Graph, opts *Options, rec Recorder) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	opts = opts.withDefaults()
	emit := func(ev Event) {
		if rec != nil {
			rec.Record(ev)
		}
	}

	res := &Result{
		Status:    StatusSuccess,
		States:    make(map[string]VarState, g.VarCount()),
		Residuals: make(map[string]float64),
	}
	for i := 0; i < g.VarCount(); i++ {
		v := g.Var(i)
		if v.IsKnown() {
			res.States[v.Name()] = StateKnown
		} else {
			res.States[v.Name()] = StateUnknown
		}
	}
	emit(Event{Kind: EventStart})

	if err := substitute(g, res, emit); err != nil {
		return nil, err
	}

	free := func(v *variable.Variable) bool { return !v.IsKnown() }
	for _, comp := range g.Components(free) {
		comp = withUnknownTargets(g, comp)
		if len(comp) == 0 {
			continue
		}
		if !g.HasCycle(comp, free) || !determined(g, comp) {
			// Acyclic remainders are stuck on a missing input, and
			// underdetermined cycles have more unknowns than
			// equations. Neither can be iterated.
			continue
		}
		iters, err := newton(g, comp, opts, emit, res)
		res.Iterations += iters
		if err != nil {
			cerr, ok := err.(*ConvergenceError)
			if !ok {
				return nil, err
			}
			res.Failures = append(res.Failures, cerr)
			for i, name := range cerr.Names {
				res.Residuals[name] = cerr.Residuals[i]
			}
			continue
		}
		for _, eqID := range comp {
			name := g.Eq(eqID).Target.Name()
			res.States[name] = StateKnown
			res.Solved = append(res.Solved, name)
		}
	}

	for i := 0; i < g.VarCount(); i++ {
		v := g.Var(i)
		if !v.IsKnown() {
			res.States[v.Name()] = StateUnresolved
			res.Unresolved = append(res.Unresolved, v.Name())
		}
	}
	if len(res.Unresolved) > 0 {
		res.Status = StatusPartial
	}
	emit(Event{Kind: EventFinish, Pass: res.Passes, Iteration: res.Iterations})

	if opts.RequireFull && len(res.Unresolved) > 0 {
		return res, &UnresolvedError{Names: append([]string(nil), res.Unresolved...)}
	}
	return res, nil
}

// substitute runs full scans until one makes no progress. Each scan fires
// every equation whose referenced variables are all known and whose target
// is not. Self-referential equations are skipped here; they belong to the
// simultaneous path.
func substitute(g *depgraph.Graph, res *Result, emit func(Event)) error {
	for {
		res.Passes++
		progress := false
		for eqID := 0; eqID < g.EqCount(); eqID++ {
			eq := g.Eq(eqID)
			if eq.Target.IsKnown() || g.SelfReferential(eqID) || !eq.CanAttempt() {
				continue
			}
			res.States[eq.Target.Name()] = StateAttempting
			fired, err := eq.TrySolve()
			if err != nil {
				return err
			}
			if !fired {
				res.States[eq.Target.Name()] = StateUnknown
				continue
			}
			q, _ := eq.Target.Quantity()
			emit(Event{
				Kind:     EventAssign,
				Pass:     res.Passes,
				Equation: eq.Name,
				Variable: eq.Target.Name(),
				Value:    q.Base(),
			})
			res.States[eq.Target.Name()] = StateKnown
			res.Solved = append(res.Solved, eq.Target.Name())
			progress = true
		}
		emit(Event{Kind: EventPass, Pass: res.Passes})
		if !progress {
			return nil
		}
	}
}

// withUnknownTargets filters a component down to equations still pending.
func withUnknownTargets(g *depgraph.Graph, comp []int) []int {
	out := make([]int, 0, len(comp))
	for _, eqID := range comp {
		if !g.Eq(eqID).Target.IsKnown() {
			out = append(out, eqID)
		}
	}
	return out
}

// determined reports whether every unknown the component reads is the
// target of one of its equations. If not, the component has a free input
// nothing can produce, and iteration would evaluate against a hole.
func determined(g *depgraph.Graph, comp []int) bool {
	targets := make(map[int]bool, len(comp))
	for _, eqID := range comp {
		targets[g.Target(eqID)] = true
	}
	for _, eqID := range comp {
		for _, varID := range g.Reads(eqID) {
			if g.Var(varID).IsKnown() || targets[varID] {
				continue
			}
			return false
		}
	}
	return true
}
