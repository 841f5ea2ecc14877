package problem

import (
	"fmt"

	"github.com/quanta-xyz/go-quanta/dim"
	"github.com/quanta-xyz/go-quanta/expr"
	"github.com/quanta-xyz/go-quanta/unit"
	"github.com/quanta-xyz/go-quanta/variable"
)

// Builder provides a fluent API for assembling a problem. Methods chain;
// the first error sticks and Done reports it, so a chain reads without
// per-step error handling.
//
// Example:
//
//	p, err := problem.Build("barlow").
//	    Var("pressure", dim.Pressure).
//	    Var("diameter", dim.Base(dim.Length)).
//	    Var("stress", dim.Pressure).
//	    Var("thickness", dim.Base(dim.Length)).
//	    Given("pressure", 100, "kilopascal").
//	    Given("diameter", 50, "millimeter").
//	    Given("stress", 138000, "kilopascal").
//	    Eq("thickness", "thickness", barlow).
//	    Done()
type Builder struct {
	p   *Problem
	err error
}

// Build starts a builder over the shared SI registry.
func Build(name string) *Builder {
	return BuildIn(name, unit.SI())
}

// BuildIn starts a builder over a specific unit registry.
func BuildIn(name string, reg *unit.Registry) *Builder {
	return &Builder{p: NewIn(name, reg)}
}

// Var declares a variable with the given dimension.
func (b *Builder) Var(name string, sig dim.Signature) *Builder {
	if b.err != nil {
		return b
	}
	_, b.err = b.p.Declare(name, sig)
	return b
}

// Given declares nothing new: it assigns a known value to an already
// declared variable, in the named unit.
func (b *Builder) Given(name string, magnitude float64, unitName string) *Builder {
	if b.err != nil {
		return b
	}
	v, ok := b.p.Variable(name)
	if !ok {
		b.err = errUnknownVariable(name)
		return b
	}
	b.err = v.Set(magnitude).In(unitName)
	return b
}

// Eq adds an equation binding the named target variable to an expression.
func (b *Builder) Eq(eqName, target string, node expr.Node) *Builder {
	if b.err != nil {
		return b
	}
	v, ok := b.p.Variable(target)
	if !ok {
		b.err = errUnknownVariable(target)
		return b
	}
	b.err = b.p.AddEquation(eqName, v, node)
	return b
}

// EqFn is Eq with the expression produced by a callback that can look up
// variables by name, keeping the chain free of intermediate locals.
func (b *Builder) EqFn(eqName, target string, f func(ref func(string) expr.Node) expr.Node) *Builder {
	if b.err != nil {
		return b
	}
	ref := func(name string) expr.Node {
		v, ok := b.p.Variable(name)
		if !ok {
			if b.err == nil {
				b.err = errUnknownVariable(name)
			}
			return expr.Num(0)
		}
		return expr.Var(v)
	}
	node := f(ref)
	if b.err != nil {
		return b
	}
	return b.Eq(eqName, target, node)
}

// Sub absorbs a sub-problem under a prefix.
func (b *Builder) Sub(prefix string, sub *Problem) *Builder {
	if b.err != nil {
		return b
	}
	b.err = b.p.AddSubProblem(prefix, sub)
	return b
}

// Use registers an externally constructed variable.
func (b *Builder) Use(v *variable.Variable) *Builder {
	if b.err != nil {
		return b
	}
	b.err = b.p.AddVariable(v)
	return b
}

// Done returns the assembled problem, or the first error the chain hit.
func (b *Builder) Done() (*Problem, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.p, nil
}

func errUnknownVariable(name string) error {
	return fmt.Errorf("%w: %q", ErrForeignVariable, name)
}
