package solve

import (
	"math"

	"github.com/quanta-xyz/go-quanta/depgraph"
	"github.com/quanta-xyz/go-quanta/expr"
	"github.com/quanta-xyz/go-quanta/quantity"
	"github.com/quanta-xyz/go-quanta/unit"
	"github.com/quanta-xyz/go-quanta/variable"
)

// newton iterates one coupled component to convergence: damped Newton over
// the targets' base-unit values with finite-difference sensitivities. On
// success the targets are known, re-expressed in their preferred units. On
// failure the targets are reset to unknown (their seeds kept as last
// values) and a *ConvergenceError is returned; any other error is a hard
// evaluation failure.
func newton(g *depgraph.Graph, comp []int, opts *Options, emit func(Event), res *Result) (int, error) {
	n := len(comp)
	targets := make([]*variable.Variable, n)
	exprs := make([]expr.Node, n)
	names := make([]string, n)
	for i, eqID := range comp {
		eq := g.Eq(eqID)
		targets[i] = eq.Target
		exprs[i] = eq.Expr
		names[i] = eq.Target.Name()
		res.States[eq.Target.Name()] = StateIterating
	}

	// All arithmetic happens in base units. The seed is the target's last
	// held value when one exists, zero otherwise; the last value's unit is
	// remembered so the answer comes back in it.
	x := make([]float64, n)
	prefs := make([]unit.Unit, n)
	for i, v := range targets {
		prefs[i] = unit.Canonical(v.Sig())
		if last, ok := v.Last(); ok {
			x[i] = last.Base()
			prefs[i] = last.Unit
		}
	}

	restore := func() {
		for _, v := range targets {
			v.SetUnknown()
		}
	}
	residual := func(x, f []float64) error {
		for i, v := range targets {
			if err := v.SetKnown(quantity.New(x[i], unit.Canonical(v.Sig()))); err != nil {
				return err
			}
		}
		for i := range exprs {
			q, err := expr.Eval(exprs[i])
			if err != nil {
				return err
			}
			f[i] = q.Base() - x[i]
		}
		return nil
	}
	// sweep is a Gauss-Seidel relaxation pass: each target is reassigned
	// from its equation in sequence, every assignment visible to the next.
	sweep := func(x []float64) error {
		for i, v := range targets {
			if err := v.SetKnown(quantity.New(x[i], unit.Canonical(v.Sig()))); err != nil {
				return err
			}
		}
		for i, v := range targets {
			q, err := expr.Eval(exprs[i])
			if err != nil {
				return err
			}
			x[i] = q.Base()
			if err := v.SetKnown(quantity.New(x[i], unit.Canonical(v.Sig()))); err != nil {
				return err
			}
		}
		return nil
	}

	f := make([]float64, n)
	fp := make([]float64, n)
	jac := make([][]float64, n)
	for i := range jac {
		jac[i] = make([]float64, n)
	}

	for iter := 1; iter <= opts.MaxIterations; iter++ {
		if err := residual(x, f); err != nil {
			restore()
			return iter, err
		}
		if maxAbs(f) < opts.Tolerance {
			for i, v := range targets {
				q := quantity.New(x[i], unit.Canonical(v.Sig()))
				if converted, err := q.In(prefs[i]); err == nil {
					q = converted
				}
				if err := v.SetKnown(q); err != nil {
					restore()
					return iter, err
				}
				emit(Event{Kind: EventAssign, Variable: v.Name(), Value: x[i], Iteration: iter})
			}
			emit(Event{Kind: EventConverge, Iteration: iter, Residual: maxAbs(f)})
			return iter, nil
		}

		// Column-by-column finite differences around the current point.
		for j := 0; j < n; j++ {
			h := opts.FiniteDiffStep * math.Max(math.Abs(x[j]), 1)
			xj := x[j]
			x[j] = xj + h
			if err := residual(x, fp); err != nil {
				restore()
				return iter, err
			}
			x[j] = xj
			for i := 0; i < n; i++ {
				jac[i][j] = (fp[i] - f[i]) / h
			}
		}

		if d, ok := solveLinear(jac, f); ok {
			for i := range x {
				x[i] += opts.Damping * d[i]
			}
		} else {
			// A singular sensitivity matrix does not doom the
			// component: consistent redundant systems (linear
			// cycles) land here, and a relaxation sweep makes
			// progress where the update direction is undefined.
			if err := sweep(x); err != nil {
				restore()
				return iter, err
			}
		}
		emit(Event{Kind: EventIterate, Iteration: iter, Residual: maxAbs(f)})
	}

	// Cap hit. Capture the final residuals, then hand the variables back
	// unchanged so a failed solve is not observable through them.
	_ = residual(x, f)
	restore()
	emit(Event{Kind: EventDiverge, Iteration: opts.MaxIterations, Residual: maxAbs(f)})
	return opts.MaxIterations, &ConvergenceError{
		Names:      names,
		Residuals:  append([]float64(nil), f...),
		Iterations: opts.MaxIterations,
		Tolerance:  opts.Tolerance,
	}
}

// solveLinear solves J·d = -f by Gaussian elimination with partial
// pivoting. The second return is false when the matrix is singular to
// working precision. The pivot threshold is relative to the matrix norm:
// finite-difference sensitivities of an exactly singular system carry
// rounding noise around 1e-10 of the entry scale, and treating such a
// pivot as usable would produce an arbitrarily large step.
func solveLinear(jac [][]float64, f []float64) ([]float64, bool) {
	n := len(f)
	norm := 0.0
	for i := range jac {
		if v := maxAbs(jac[i]); v > norm {
			norm = v
		}
	}
	if norm == 0 {
		return nil, false
	}
	threshold := 1e-8 * norm

	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n+1)
		copy(m[i], jac[i])
		m[i][n] = -f[i]
	}
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(m[pivot][col]) < threshold {
			return nil, false
		}
		m[col], m[pivot] = m[pivot], m[col]
		for r := col + 1; r < n; r++ {
			factor := m[r][col] / m[col][col]
			for c := col; c <= n; c++ {
				m[r][c] -= factor * m[col][c]
			}
		}
	}
	d := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := m[i][n]
		for c := i + 1; c < n; c++ {
			sum -= m[i][c] * d[c]
		}
		d[i] = sum / m[i][i]
	}
	return d, true
}

func maxAbs(f []float64) float64 {
	max := 0.0
	for _, v := range f {
		if v < 0 {
			v = -v
		}
		if v > max {
			max = v
		}
	}
	return max
}
