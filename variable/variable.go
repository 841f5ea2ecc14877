// Package variable implements named slots for physical quantities. A
// variable holds either a known quantity or nothing, and always carries a
// fixed dimensional signature; setting a value of the wrong dimension is
// rejected. Variables are the mutable state the solver engine works over:
// equations write them, expressions read them live.
package variable

import (
	"errors"
	"fmt"

	"github.com/quanta-xyz/go-quanta/dim"
	"github.com/quanta-xyz/go-quanta/quantity"
	"github.com/quanta-xyz/go-quanta/unit"
)

// ErrUnknown is the sentinel returned when reading a variable with no value.
var ErrUnknown = errors.New("variable: value unknown")

// Settable is the write half of a variable's contract.
type Settable interface {
	SetKnown(quantity.Quantity) error
	SetUnknown()
}

// Evaluable is the read half, used by expression evaluation and the graph
// builder.
type Evaluable interface {
	Name() string
	Sig() dim.Signature
	IsKnown() bool
	Quantity() (quantity.Quantity, error)
}

// Variable is a named, dimensioned slot. The zero value is not usable;
// construct with Declare or DeclareIn.
type Variable struct {
	name  string
	sig   dim.Signature
	reg   *unit.Registry
	qty   quantity.Quantity
	known bool
}

var (
	_ Settable  = (*Variable)(nil)
	_ Evaluable = (*Variable)(nil)
)

// Declare creates an unknown variable with a fixed dimension, resolving unit
// names against the shared SI registry.
func Declare(name string, sig dim.Signature) *Variable {
	return DeclareIn(name, sig, unit.SI())
}

// DeclareIn creates an unknown variable resolving unit names against the
// given registry.
func DeclareIn(name string, sig dim.Signature, reg *unit.Registry) *Variable {
	return &Variable{name: name, sig: sig, reg: reg}
}

// Name returns the variable's name.
func (v *Variable) Name() string { return v.name }

// Sig returns the declared dimensional signature.
func (v *Variable) Sig() dim.Signature { return v.sig }

// Registry returns the unit registry the variable resolves names against.
func (v *Variable) Registry() *unit.Registry { return v.reg }

// IsKnown reports whether the variable holds a value.
func (v *Variable) IsKnown() bool { return v.known }

// Quantity returns the held value, or ErrUnknown when the variable is unset.
func (v *Variable) Quantity() (quantity.Quantity, error) {
	if !v.known {
		return quantity.Quantity{}, fmt.Errorf("variable: %q: %w", v.name, ErrUnknown)
	}
	return v.qty, nil
}

// Last returns the most recent value the variable held, whether or not it is
// currently known, and whether such a value exists. The simultaneous solver
// uses it to seed initial guesses.
func (v *Variable) Last() (quantity.Quantity, bool) {
	if v.qty.Unit.Name == "" {
		return quantity.Quantity{}, false
	}
	return v.qty, true
}

// SetKnown assigns a quantity, checking it against the declared dimension.
func (v *Variable) SetKnown(q quantity.Quantity) error {
	if !q.Sig().Equal(v.sig) {
		return fmt.Errorf("variable: %q: %w",
			v.name, &dim.MismatchError{Left: v.sig, Right: q.Sig(), Op: "set"})
	}
	v.qty = q
	v.known = true
	return nil
}

// SetUnknown clears the value. The last quantity is retained as a solver
// seed but is no longer readable through Quantity.
func (v *Variable) SetUnknown() {
	v.known = false
}

// Set begins the fluent two-step assignment: choose the magnitude first,
// then the unit. The dimension check happens when the unit is chosen, so no
// partially-specified quantity is ever observable:
//
//	if err := pressure.Set(100).In("kilopascal"); err != nil { ... }
func (v *Variable) Set(magnitude float64) *Setter {
	return &Setter{v: v, magnitude: magnitude}
}

// Setter is the intermediate state of a fluent assignment. It holds only the
// magnitude; nothing is written to the variable until In succeeds.
type Setter struct {
	v         *Variable
	magnitude float64
}

// In resolves the unit name against the variable's registry, requiring it to
// match the variable's dimension, and marks the variable known.
func (s *Setter) In(unitName string) error {
	u, err := s.v.reg.Lookup(unitName, s.v.sig)
	if err != nil {
		return err
	}
	return s.v.SetKnown(quantity.New(s.magnitude, u))
}

// Clone returns an independent copy of the variable under a new name.
// Problem composition uses it to copy sub-problem variables into the parent
// namespace without sharing mutable state.
func (v *Variable) Clone(name string) *Variable {
	return &Variable{
		name:  name,
		sig:   v.sig,
		reg:   v.reg,
		qty:   v.qty,
		known: v.known,
	}
}

func (v *Variable) String() string {
	if v.known {
		return fmt.Sprintf("%s = %s", v.name, v.qty)
	}
	return fmt.Sprintf("%s = ? (%s)", v.name, v.sig)
}
