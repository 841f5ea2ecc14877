// Package dim implements dimensional signatures for physical quantities.
// A signature is a fixed vector of rational exponents over the base
// dimensions (length, mass, time, temperature, current, substance,
// luminosity, angle). Two quantities are compatible for addition only when
// their signatures are identical; multiplication and division add and
// subtract signatures component-wise.
package dim

import (
	"fmt"
	"strings"
)

// Base dimension indices into a Signature.
const (
	Length = iota
	Mass
	Time
	Temperature
	Current
	Substance
	Luminosity
	Angle
	NumBases
)

// baseSymbols are the conventional symbols used when printing signatures.
var baseSymbols = [NumBases]string{"L", "M", "T", "Θ", "I", "N", "J", "A"}

// Exp is a rational exponent, kept in lowest terms with positive denominator.
// The zero value is normalized to 0/1 on every operation, so Signature values
// remain directly comparable with ==.
type Exp struct {
	Num int
	Den int
}

// NewExp returns the reduced rational n/d.
func NewExp(n, d int) Exp {
	if d == 0 {
		panic("dim: zero denominator")
	}
	return Exp{Num: n, Den: d}.reduce()
}

func (e Exp) reduce() Exp {
	if e.Den == 0 {
		e.Den = 1
	}
	if e.Num == 0 {
		return Exp{0, 1}
	}
	if e.Den < 0 {
		e.Num, e.Den = -e.Num, -e.Den
	}
	g := gcd(abs(e.Num), e.Den)
	return Exp{e.Num / g, e.Den / g}
}

// Add returns e + o.
func (e Exp) Add(o Exp) Exp {
	e, o = e.reduce(), o.reduce()
	return Exp{e.Num*o.Den + o.Num*e.Den, e.Den * o.Den}.reduce()
}

// Sub returns e - o.
func (e Exp) Sub(o Exp) Exp {
	o = o.reduce()
	return e.Add(Exp{-o.Num, o.Den})
}

// IsZero reports whether the exponent is zero.
func (e Exp) IsZero() bool { return e.Num == 0 }

func (e Exp) String() string {
	e = e.reduce()
	if e.Den == 1 {
		return fmt.Sprintf("%d", e.Num)
	}
	return fmt.Sprintf("%d/%d", e.Num, e.Den)
}

// Signature is a vector of rational exponents, one per base dimension.
// Signatures are value types and comparable with ==; the functions below
// always return normalized values.
type Signature [NumBases]Exp

// Dimensionless is the zero signature.
var Dimensionless = Signature{}

// Base returns the signature with exponent 1 on the given base dimension.
func Base(i int) Signature {
	var s Signature
	s[i] = Exp{1, 1}
	return s.normalize()
}

func (s Signature) normalize() Signature {
	for i := range s {
		s[i] = s[i].reduce()
	}
	return s
}

// Mul returns the component-wise sum of exponents (dimension of a product).
func (s Signature) Mul(o Signature) Signature {
	var out Signature
	for i := range s {
		out[i] = s[i].Add(o[i])
	}
	return out
}

// Div returns the component-wise difference of exponents (dimension of a quotient).
func (s Signature) Div(o Signature) Signature {
	var out Signature
	for i := range s {
		out[i] = s[i].Sub(o[i])
	}
	return out
}

// Pow multiplies every exponent by n.
func (s Signature) Pow(n int) Signature {
	var out Signature
	for i := range s {
		e := s[i].reduce()
		out[i] = Exp{e.Num * n, e.Den}.reduce()
	}
	return out
}

// Root divides every exponent by n. Used for square roots of areas and the like.
func (s Signature) Root(n int) Signature {
	var out Signature
	for i := range s {
		e := s[i].reduce()
		out[i] = Exp{e.Num, e.Den * n}.reduce()
	}
	return out
}

// IsDimensionless reports whether every exponent is zero.
func (s Signature) IsDimensionless() bool {
	for i := range s {
		if !s[i].IsZero() {
			return false
		}
	}
	return true
}

// Equal reports whether two signatures are identical after normalization.
func (s Signature) Equal(o Signature) bool {
	return s.normalize() == o.normalize()
}

func (s Signature) String() string {
	s = s.normalize()
	var parts []string
	for i := range s {
		if s[i].IsZero() {
			continue
		}
		if s[i] == (Exp{1, 1}) {
			parts = append(parts, baseSymbols[i])
			continue
		}
		parts = append(parts, baseSymbols[i]+"^"+s[i].String())
	}
	if len(parts) == 0 {
		return "1"
	}
	return strings.Join(parts, "·")
}

// Common derived signatures used by the unit catalog and tests.
var (
	Area         = Base(Length).Pow(2)
	Volume       = Base(Length).Pow(3)
	Velocity     = Base(Length).Div(Base(Time))
	Acceleration = Base(Length).Div(Base(Time).Pow(2))
	Frequency    = Dimensionless.Div(Base(Time))
	Force        = Base(Mass).Mul(Acceleration)
	Pressure     = Force.Div(Area)
	Energy       = Force.Mul(Base(Length))
	Power        = Energy.Div(Base(Time))
)

// Op identifies an arithmetic composition of two signatures.
type Op string

const (
	OpAdd Op = "+"
	OpSub Op = "-"
	OpMul Op = "*"
	OpDiv Op = "/"
)

// Compose combines two signatures under the given operation. Multiplication
// and division compose exponents; addition and subtraction require identical
// signatures and fail with a MismatchError otherwise.
func Compose(a, b Signature, op Op) (Signature, error) {
	switch op {
	case OpMul:
		return a.Mul(b), nil
	case OpDiv:
		return a.Div(b), nil
	case OpAdd, OpSub:
		if !a.Equal(b) {
			return Signature{}, &MismatchError{Left: a, Right: b, Op: op}
		}
		return a.normalize(), nil
	default:
		return Signature{}, fmt.Errorf("dim: unknown operation %q", op)
	}
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
