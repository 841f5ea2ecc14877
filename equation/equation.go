// Package equation binds a target variable to an expression. An equation is
// directional: solving means evaluating the right-hand side and assigning
// the result to the target. Whether an equation can fire depends only on
// which variables are currently known, so the same equation can be attempted
// repeatedly across solver passes.
package equation

import (
	"errors"
	"fmt"

	"github.com/quanta-xyz/go-quanta/dim"
	"github.com/quanta-xyz/go-quanta/expr"
	"github.com/quanta-xyz/go-quanta/quantity"
	"github.com/quanta-xyz/go-quanta/variable"
)

// Equation is a named binding "target = expression".
type Equation struct {
	Name   string
	Target *variable.Variable
	Expr   expr.Node
}

// New constructs an equation and performs a best-effort static dimension
// check: when the expression's signature is statically inferable it must
// match the target's declared dimension. A full check may only be possible
// at evaluation time (conditionals with cross-dimensional branches).
func New(name string, target *variable.Variable, node expr.Node) (*Equation, error) {
	if target == nil {
		return nil, fmt.Errorf("equation: %q has no target", name)
	}
	if node == nil {
		return nil, fmt.Errorf("equation: %q has no expression", name)
	}
	if sig, ok := expr.InferSig(node); ok && !sig.Equal(target.Sig()) {
		return nil, fmt.Errorf("equation: %q: %w",
			name, &dim.MismatchError{Left: target.Sig(), Right: sig, Op: "="})
	}
	return &Equation{Name: name, Target: target, Expr: node}, nil
}

// Vars returns the distinct variables read by the expression.
func (e *Equation) Vars() []*variable.Variable {
	return expr.Vars(e.Expr)
}

// SelfReferential reports whether the target also appears in the
// expression. Such equations cannot be solved by substitution and are
// routed to the simultaneous solver.
func (e *Equation) SelfReferential() bool {
	return expr.References(e.Expr, e.Target)
}

// CanAttempt reports whether every referenced variable except the target is
// known. The graph builder uses it without triggering a full evaluation.
func (e *Equation) CanAttempt() bool {
	for _, v := range e.Vars() {
		if v == e.Target {
			continue
		}
		if !v.IsKnown() {
			return false
		}
	}
	return true
}

// TrySolve evaluates the expression and, on success, assigns the result to
// the target and marks it known. The first return reports whether the
// equation fired. An unresolved reference is not an error, just "not yet";
// dimension errors propagate.
func (e *Equation) TrySolve() (bool, error) {
	q, err := expr.Eval(e.Expr)
	if err != nil {
		if errors.Is(err, expr.ErrUnresolved) {
			return false, nil
		}
		return false, fmt.Errorf("equation: %q: %w", e.Name, err)
	}
	if err := e.assign(q); err != nil {
		return false, err
	}
	return true, nil
}

// assign reconciles the evaluated quantity with the target's dimension and
// unit preference before marking it known. If the target held a value
// before (a manual override later reset, or a previous solve), the result
// is re-expressed in that unit.
func (e *Equation) assign(q quantity.Quantity) error {
	if prev, ok := e.Target.Last(); ok && prev.Unit.Sig.Equal(q.Sig()) {
		converted, err := q.In(prev.Unit)
		if err == nil {
			q = converted
		}
	}
	if err := e.Target.SetKnown(q); err != nil {
		return fmt.Errorf("equation: %q: %w", e.Name, err)
	}
	return nil
}

func (e *Equation) String() string {
	return fmt.Sprintf("%s: %s = %s", e.Name, e.Target.Name(), e.Expr)
}
