// Package quantity implements immutable (value, unit) pairs with
// dimension-checked arithmetic. Operations never mutate their operands;
// every result is a fresh Quantity. Addition and subtraction convert the
// right operand into the left operand's unit; multiplication and division
// compose dimensions and express the result in the canonical SI unit for
// the resulting signature.
package quantity

import (
	"errors"
	"fmt"
	"math"

	"github.com/quanta-xyz/go-quanta/dim"
	"github.com/quanta-xyz/go-quanta/unit"
)

// Quantity is a concrete value expressed in a unit.
type Quantity struct {
	Value float64
	Unit  unit.Unit
}

// New constructs a quantity.
func New(v float64, u unit.Unit) Quantity {
	return Quantity{Value: v, Unit: u}
}

// Dimensionless wraps a bare number.
func Dimensionless(v float64) Quantity {
	return Quantity{Value: v, Unit: unit.Canonical(dim.Dimensionless)}
}

// Sig returns the quantity's dimensional signature.
func (q Quantity) Sig() dim.Signature { return q.Unit.Sig }

// Base returns the value in the SI base representation of its dimension.
func (q Quantity) Base() float64 { return q.Unit.ToBase(q.Value) }

// In re-expresses the quantity in another unit of the same dimension.
func (q Quantity) In(to unit.Unit) (Quantity, error) {
	v, err := unit.Convert(q.Value, q.Unit, to)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Value: v, Unit: to}, nil
}

func (q Quantity) String() string {
	return fmt.Sprintf("%g %s", q.Value, q.Unit.Name)
}

// Add returns a + b in a's unit. Fails unless the signatures are identical.
func Add(a, b Quantity) (Quantity, error) {
	bv, err := unit.Convert(b.Value, b.Unit, a.Unit)
	if err != nil {
		return Quantity{}, opError(a, b, dim.OpAdd, err)
	}
	return Quantity{Value: a.Value + bv, Unit: a.Unit}, nil
}

// Sub returns a - b in a's unit.
func Sub(a, b Quantity) (Quantity, error) {
	bv, err := unit.Convert(b.Value, b.Unit, a.Unit)
	if err != nil {
		return Quantity{}, opError(a, b, dim.OpSub, err)
	}
	return Quantity{Value: a.Value - bv, Unit: a.Unit}, nil
}

// Mul returns a * b in the canonical SI unit of the composed dimension.
// Affine (offset-bearing) operands are rejected: a temperature expressed in
// celsius has no meaningful product.
func Mul(a, b Quantity) (Quantity, error) {
	if a.Unit.IsAffine() || b.Unit.IsAffine() {
		return Quantity{}, affineError(a, b, dim.OpMul)
	}
	sig, err := dim.Compose(a.Sig(), b.Sig(), dim.OpMul)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Value: a.Base() * b.Base(), Unit: unit.Canonical(sig)}, nil
}

// Div returns a / b in the canonical SI unit of the composed dimension.
func Div(a, b Quantity) (Quantity, error) {
	if a.Unit.IsAffine() || b.Unit.IsAffine() {
		return Quantity{}, affineError(a, b, dim.OpDiv)
	}
	sig, err := dim.Compose(a.Sig(), b.Sig(), dim.OpDiv)
	if err != nil {
		return Quantity{}, err
	}
	bb := b.Base()
	if bb == 0 {
		return Quantity{}, fmt.Errorf("quantity: division by zero (%s / %s)", a, b)
	}
	return Quantity{Value: a.Base() / bb, Unit: unit.Canonical(sig)}, nil
}

// Neg returns -q in q's unit.
func Neg(q Quantity) Quantity {
	return Quantity{Value: -q.Value, Unit: q.Unit}
}

// Abs returns |q| in q's unit.
func Abs(q Quantity) Quantity {
	return Quantity{Value: math.Abs(q.Value), Unit: q.Unit}
}

// Cmp compares two quantities of identical dimension, returning -1, 0, or 1.
// The right operand is converted into the left operand's unit first.
func Cmp(a, b Quantity) (int, error) {
	bv, err := unit.Convert(b.Value, b.Unit, a.Unit)
	if err != nil {
		return 0, err
	}
	switch {
	case a.Value < bv:
		return -1, nil
	case a.Value > bv:
		return 1, nil
	default:
		return 0, nil
	}
}

// ApproxEqual reports whether two compatible quantities agree within the
// given relative tolerance.
func ApproxEqual(a, b Quantity, reltol float64) (bool, error) {
	bv, err := unit.Convert(b.Value, b.Unit, a.Unit)
	if err != nil {
		return false, err
	}
	scale := math.Max(math.Abs(a.Value), math.Abs(bv))
	if scale == 0 {
		return true, nil
	}
	return math.Abs(a.Value-bv) <= reltol*scale, nil
}

func opError(a, b Quantity, op dim.Op, err error) error {
	return fmt.Errorf("quantity: %s %s %s: %w", a, op, b, err)
}

// ErrAffine is returned when an offset-bearing unit appears in a
// multiplication or division.
var ErrAffine = errors.New("quantity: affine units cannot be multiplied or divided")

func affineError(a, b Quantity, op dim.Op) error {
	return fmt.Errorf("quantity: %s %s %s: %w", a, op, b, ErrAffine)
}
