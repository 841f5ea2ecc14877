package dim

import (
	"errors"
	"testing"
)

func TestExpReduce(t *testing.T) {
	if got := NewExp(2, 4); got != (Exp{1, 2}) {
		t.Errorf("expected 1/2, got %v", got)
	}
	if got := NewExp(3, -6); got != (Exp{-1, 2}) {
		t.Errorf("expected -1/2, got %v", got)
	}
	if got := NewExp(0, 7); got != (Exp{0, 1}) {
		t.Errorf("expected 0/1, got %v", got)
	}
}

func TestExpArithmetic(t *testing.T) {
	half := NewExp(1, 2)
	third := NewExp(1, 3)
	if sum := half.Add(third); sum != (Exp{5, 6}) {
		t.Errorf("1/2 + 1/3: expected 5/6, got %v", sum)
	}
	if diff := half.Sub(half); !diff.IsZero() {
		t.Errorf("1/2 - 1/2: expected zero, got %v", diff)
	}
}

func TestSignatureComposition(t *testing.T) {
	if got := Base(Length).Mul(Base(Length)); !got.Equal(Area) {
		t.Errorf("L*L: expected %s, got %s", Area, got)
	}
	if got := Force.Div(Area); !got.Equal(Pressure) {
		t.Errorf("F/A: expected %s, got %s", Pressure, got)
	}
	// Multiplying then dividing restores the original signature.
	if got := Pressure.Mul(Base(Length)).Div(Base(Length)); !got.Equal(Pressure) {
		t.Errorf("round-trip: expected %s, got %s", Pressure, got)
	}
}

func TestSignatureComparable(t *testing.T) {
	// Signatures built by different routes must compare equal with ==.
	a := Base(Mass).Div(Base(Length)).Div(Base(Time).Pow(2))
	if a != Pressure.normalize() {
		t.Errorf("expected identical array values, got %s vs %s", a, Pressure)
	}
}

func TestComposeAdd(t *testing.T) {
	if _, err := Compose(Base(Length), Base(Length), OpAdd); err != nil {
		t.Fatalf("compatible add failed: %v", err)
	}

	_, err := Compose(Base(Length), Pressure, OpAdd)
	if err == nil {
		t.Fatal("expected mismatch error")
	}
	if !errors.Is(err, ErrMismatch) {
		t.Errorf("expected ErrMismatch, got %v", err)
	}
	var mm *MismatchError
	if !errors.As(err, &mm) {
		t.Fatalf("expected *MismatchError, got %T", err)
	}
	if !mm.Left.Equal(Base(Length)) || !mm.Right.Equal(Pressure) {
		t.Errorf("error does not identify both signatures: %v", mm)
	}
}

func TestPowRoot(t *testing.T) {
	if got := Area.Root(2); !got.Equal(Base(Length)) {
		t.Errorf("sqrt(L^2): expected L, got %s", got)
	}
	if got := Base(Time).Pow(-1); !got.Equal(Frequency) {
		t.Errorf("T^-1: expected %s, got %s", Frequency, got)
	}
}

func TestString(t *testing.T) {
	if got := Dimensionless.String(); got != "1" {
		t.Errorf("expected \"1\", got %q", got)
	}
	if got := Pressure.String(); got != "L^-1·M·T^-2" {
		t.Errorf("unexpected pressure rendering: %q", got)
	}
}
