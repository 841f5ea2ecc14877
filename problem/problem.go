// Package problem composes variables and equations into a solvable unit.
// Problems nest: a sub-problem is absorbed by copying its variables under a
// qualified name ("pipe.thickness") and re-pointing copies of its equations
// at the copies, so the sub-problem itself stays untouched and reusable.
package problem

import (
	"errors"
	"fmt"
	"sort"

	"github.com/quanta-xyz/go-quanta/depgraph"
	"github.com/quanta-xyz/go-quanta/dim"
	"github.com/quanta-xyz/go-quanta/equation"
	"github.com/quanta-xyz/go-quanta/expr"
	"github.com/quanta-xyz/go-quanta/solve"
	"github.com/quanta-xyz/go-quanta/unit"
	"github.com/quanta-xyz/go-quanta/variable"
)

var (
	// ErrDuplicateName is the sentinel for registering a variable or
	// equation under a name the problem already uses.
	ErrDuplicateName = errors.New("problem: duplicate name")

	// ErrForeignVariable is returned when an equation references a
	// variable the problem does not own. Equations over unregistered
	// variables would silently escape composition and solving.
	ErrForeignVariable = errors.New("problem: variable not registered")
)

// DuplicateNameError identifies the colliding name and what holds it.
type DuplicateNameError struct {
	Name string
	Kind string // "variable" or "equation"
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("problem: %s name %q already in use", e.Kind, e.Name)
}

// Is makes the error match ErrDuplicateName.
func (e *DuplicateNameError) Is(target error) bool { return target == ErrDuplicateName }

// Problem is an ordered collection of variables and equations sharing a
// unit registry. The zero value is not usable; construct with New or NewIn.
type Problem struct {
	name    string
	reg     *unit.Registry
	vars    []*variable.Variable
	varByID map[string]*variable.Variable
	eqs     []*equation.Equation
	eqNames map[string]bool
	solving bool
}

// New returns an empty problem over the shared SI registry.
func New(name string) *Problem {
	return NewIn(name, unit.SI())
}

// NewIn returns an empty problem over a specific registry. Every variable
// declared through the problem resolves unit names against it.
func NewIn(name string, reg *unit.Registry) *Problem {
	return &Problem{
		name:    name,
		reg:     reg,
		varByID: make(map[string]*variable.Variable),
		eqNames: make(map[string]bool),
	}
}

// Name returns the problem's name.
func (p *Problem) Name() string { return p.name }

// Registry returns the unit registry the problem's variables resolve
// against.
func (p *Problem) Registry() *unit.Registry { return p.reg }

// Declare creates a variable with the given dimension, registers it, and
// returns it. The name must be unused.
func (p *Problem) Declare(name string, sig dim.Signature) (*variable.Variable, error) {
	v := variable.DeclareIn(name, sig, p.reg)
	if err := p.AddVariable(v); err != nil {
		return nil, err
	}
	return v, nil
}

// AddVariable registers an externally constructed variable.
func (p *Problem) AddVariable(v *variable.Variable) error {
	if _, exists := p.varByID[v.Name()]; exists {
		return &DuplicateNameError{Name: v.Name(), Kind: "variable"}
	}
	p.varByID[v.Name()] = v
	p.vars = append(p.vars, v)
	return nil
}

// Variable looks up a registered variable by name. Sub-problem variables
// use their qualified name ("pipe.thickness").
func (p *Problem) Variable(name string) (*variable.Variable, bool) {
	v, ok := p.varByID[name]
	return v, ok
}

// Variables returns the registered variables in registration order.
func (p *Problem) Variables() []*variable.Variable {
	return append([]*variable.Variable(nil), p.vars...)
}

// AddEquation binds an expression to a target variable under a name. The
// target and every referenced variable must already be registered.
func (p *Problem) AddEquation(name string, target *variable.Variable, node expr.Node) error {
	if p.eqNames[name] {
		return &DuplicateNameError{Name: name, Kind: "equation"}
	}
	eq, err := equation.New(name, target, node)
	if err != nil {
		return err
	}
	if err := p.checkOwned(target); err != nil {
		return err
	}
	for _, v := range eq.Vars() {
		if err := p.checkOwned(v); err != nil {
			return err
		}
	}
	p.eqNames[name] = true
	p.eqs = append(p.eqs, eq)
	return nil
}

func (p *Problem) checkOwned(v *variable.Variable) error {
	if p.varByID[v.Name()] != v {
		return fmt.Errorf("%w: %q", ErrForeignVariable, v.Name())
	}
	return nil
}

// Equations returns the problem's equations in registration order.
func (p *Problem) Equations() []*equation.Equation {
	return append([]*equation.Equation(nil), p.eqs...)
}

// AddSubProblem absorbs a copy of sub under the given prefix. Every
// variable arrives as an independent clone named "prefix.original", every
// equation as a copy rewritten to reference the clones. The sub-problem is
// not modified and can be added to any number of parents; clones keep the
// values the sub's variables held at the moment of absorption.
//
// Cross-linking happens afterwards, through equations in the parent that
// reference both parent variables and qualified clones.
func (p *Problem) AddSubProblem(prefix string, sub *Problem) error {
	if prefix == "" {
		return fmt.Errorf("problem: empty sub-problem prefix")
	}
	// Validate the whole batch before touching p, so a collision midway
	// cannot leave a half-absorbed sub-problem behind.
	for _, v := range sub.vars {
		if _, exists := p.varByID[qualify(prefix, v.Name())]; exists {
			return &DuplicateNameError{Name: qualify(prefix, v.Name()), Kind: "variable"}
		}
	}
	for _, eq := range sub.eqs {
		if p.eqNames[qualify(prefix, eq.Name)] {
			return &DuplicateNameError{Name: qualify(prefix, eq.Name), Kind: "equation"}
		}
	}

	mapped := make(map[*variable.Variable]*variable.Variable, len(sub.vars))
	for _, v := range sub.vars {
		clone := v.Clone(qualify(prefix, v.Name()))
		mapped[v] = clone
		p.varByID[clone.Name()] = clone
		p.vars = append(p.vars, clone)
	}
	remap := func(v *variable.Variable) *variable.Variable {
		if clone, ok := mapped[v]; ok {
			return clone
		}
		return v
	}
	for _, eq := range sub.eqs {
		copied, err := equation.New(qualify(prefix, eq.Name), mapped[eq.Target], expr.Rewrite(eq.Expr, remap))
		if err != nil {
			return err
		}
		p.eqNames[copied.Name] = true
		p.eqs = append(p.eqs, copied)
	}
	return nil
}

func qualify(prefix, name string) string { return prefix + "." + name }

// Solve runs the engine with default options.
func (p *Problem) Solve() (*solve.Result, error) {
	return p.SolveWith(nil, nil)
}

// SolveWith runs the engine with explicit options and an optional recorder.
// A nil opts means defaults. Calling Solve from inside a recorder callback
// is rejected.
func (p *Problem) SolveWith(opts *solve.Options, rec solve.Recorder) (*solve.Result, error) {
	if p.solving {
		return nil, solve.ErrReentrantSolve
	}
	p.solving = true
	defer func() { p.solving = false }()

	g, err := depgraph.Build(p.eqs)
	if err != nil {
		return nil, err
	}
	return solve.SolveRecorded(g, opts, rec)
}

// Reset marks every registered variable unknown. Held values are retained
// as solver seeds, so a reset-and-resolve reproduces the previous answer
// unless inputs change in between.
func (p *Problem) Reset() {
	for _, v := range p.vars {
		v.SetUnknown()
	}
}

// Unknowns returns the names of currently unknown variables, sorted.
func (p *Problem) Unknowns() []string {
	var out []string
	for _, v := range p.vars {
		if !v.IsKnown() {
			out = append(out, v.Name())
		}
	}
	sort.Strings(out)
	return out
}
