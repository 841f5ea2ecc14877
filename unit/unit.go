// Package unit implements named units of measure and conversion between
// units of identical dimension. A unit maps values onto its dimension's SI
// base representation through a linear scale and, for affine scales such as
// the temperature units, an additive offset.
package unit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/quanta-xyz/go-quanta/dim"
)

// Unit is a named scale (and possibly offset) for a dimension.
// Base representation of a value v expressed in this unit is
// v*Scale + Offset.
type Unit struct {
	Name   string
	Sig    dim.Signature
	Scale  float64
	Offset float64
}

// IsAffine reports whether the unit carries an additive offset.
// Affine units may only be added, subtracted, or converted directly;
// they are rejected by multiplication and division.
func (u Unit) IsAffine() bool { return u.Offset != 0 }

// ToBase converts a value expressed in u into the SI base representation.
func (u Unit) ToBase(v float64) float64 { return v*u.Scale + u.Offset }

// FromBase converts an SI base value into u.
func (u Unit) FromBase(v float64) float64 { return (v - u.Offset) / u.Scale }

func (u Unit) String() string {
	return u.Name
}

// Convert re-expresses value from one unit in another. Both units must have
// the same dimensional signature.
func Convert(value float64, from, to Unit) (float64, error) {
	if !from.Sig.Equal(to.Sig) {
		return 0, &dim.MismatchError{Left: from.Sig, Right: to.Sig, Op: "convert"}
	}
	return (value*from.Scale + from.Offset - to.Offset) / to.Scale, nil
}

// Canonical synthesizes the SI base unit for an arbitrary signature.
// The result has scale 1 and no offset; its name is built from the SI base
// symbols, e.g. "kg·m^-1·s^-2" for pressure.
func Canonical(sig dim.Signature) Unit {
	sig = sig.Mul(dim.Dimensionless) // normalize
	if sig.IsDimensionless() {
		return Unit{Name: "dimensionless", Sig: sig, Scale: 1}
	}
	type term struct {
		symbol string
		exp    dim.Exp
	}
	symbols := [dim.NumBases]string{"m", "kg", "s", "K", "A", "mol", "cd", "rad"}
	var pos, neg []term
	for i := 0; i < dim.NumBases; i++ {
		e := sig[i]
		if e.IsZero() {
			continue
		}
		if e.Num > 0 {
			pos = append(pos, term{symbols[i], e})
		} else {
			neg = append(neg, term{symbols[i], e})
		}
	}
	render := func(ts []term) []string {
		out := make([]string, 0, len(ts))
		for _, t := range ts {
			if t.exp == (dim.Exp{Num: 1, Den: 1}) {
				out = append(out, t.symbol)
				continue
			}
			out = append(out, t.symbol+"^"+t.exp.String())
		}
		return out
	}
	parts := append(render(pos), render(neg)...)
	return Unit{Name: strings.Join(parts, "·"), Sig: sig, Scale: 1}
}

// Registry is an immutable catalog of named units. Build one with
// NewRegistry (or extend the standard catalog with NewRegistryWith) and share
// it freely; it is read-only after construction.
type Registry struct {
	byName map[string]Unit
}

// NewRegistry builds a registry holding the standard SI and engineering
// catalog.
func NewRegistry() *Registry {
	return NewRegistryWith()
}

// NewRegistryWith builds the standard catalog extended with the given units.
// Extra units override catalog entries with the same name.
func NewRegistryWith(extra ...Unit) *Registry {
	r := &Registry{byName: make(map[string]Unit, len(catalog)+len(extra))}
	for _, u := range catalog {
		r.byName[u.Name] = u
	}
	for _, u := range extra {
		r.byName[u.Name] = u
	}
	return r
}

// Get returns the unit registered under name.
func (r *Registry) Get(name string) (Unit, error) {
	u, ok := r.byName[name]
	if !ok {
		return Unit{}, &NotFoundError{Name: name}
	}
	return u, nil
}

// Lookup returns the unit registered under name, requiring it to carry the
// given dimension. A name registered for a different dimension is reported
// as not found for the target dimension.
func (r *Registry) Lookup(name string, sig dim.Signature) (Unit, error) {
	u, ok := r.byName[name]
	if !ok {
		return Unit{}, &NotFoundError{Name: name}
	}
	if !u.Sig.Equal(sig) {
		return Unit{}, &NotFoundError{Name: name, Sig: sig, WrongDimension: true}
	}
	return u, nil
}

// Names returns all registered unit names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ForDimension returns the names of all units registered for sig, sorted.
func (r *Registry) ForDimension(sig dim.Signature) []string {
	var names []string
	for n, u := range r.byName {
		if u.Sig.Equal(sig) {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

// MustGet is a convenience for tests and catalogs that panics on a missing
// unit name.
func (r *Registry) MustGet(name string) Unit {
	u, err := r.Get(name)
	if err != nil {
		panic(fmt.Sprintf("unit: %v", err))
	}
	return u
}
