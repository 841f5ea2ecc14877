package expr

import (
	"errors"
	"fmt"

	"github.com/quanta-xyz/go-quanta/quantity"
)

// ErrUnresolved marks evaluation that failed only because a referenced
// variable is not yet known. The solver engine treats it as "not yet
// solvable", distinct from a hard dimension error.
var ErrUnresolved = errors.New("expr: unresolved variable reference")

// UnresolvedError identifies the unknown variable that blocked evaluation.
type UnresolvedError struct {
	Name string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("expr: variable %q is unknown", e.Name)
}

// Is makes the error match ErrUnresolved.
func (e *UnresolvedError) Is(target error) bool { return target == ErrUnresolved }

// Eval computes the tree's value. Variable references read the live
// variable, so the same tree can be evaluated again after more variables
// become known. Comparisons evaluate to dimensionless 1 or 0. A conditional
// evaluates its condition first and recurses only into the selected branch,
// so unknown references in the unselected branch do not block evaluation.
func Eval(n Node) (quantity.Quantity, error) {
	switch t := n.(type) {
	case *Literal:
		return t.Value, nil

	case *Ref:
		if !t.Var.IsKnown() {
			return quantity.Quantity{}, &UnresolvedError{Name: t.Var.Name()}
		}
		return t.Var.Quantity()

	case *Binary:
		left, err := Eval(t.Left)
		if err != nil {
			return quantity.Quantity{}, err
		}
		right, err := Eval(t.Right)
		if err != nil {
			return quantity.Quantity{}, err
		}
		return evalBinary(t.Op, left, right)

	case *Unary:
		operand, err := Eval(t.Operand)
		if err != nil {
			return quantity.Quantity{}, err
		}
		switch t.Op {
		case "-":
			return quantity.Neg(operand), nil
		case "abs":
			return quantity.Abs(operand), nil
		default:
			return quantity.Quantity{}, fmt.Errorf("expr: unknown unary operator %q", t.Op)
		}

	case *Compare:
		left, err := Eval(t.Left)
		if err != nil {
			return quantity.Quantity{}, err
		}
		right, err := Eval(t.Right)
		if err != nil {
			return quantity.Quantity{}, err
		}
		cmp, err := quantity.Cmp(left, right)
		if err != nil {
			return quantity.Quantity{}, err
		}
		return boolQuantity(compareHolds(t.Op, cmp)), nil

	case *Conditional:
		taken, err := EvalBool(t.Cond)
		if err != nil {
			return quantity.Quantity{}, err
		}
		if taken {
			return Eval(t.Then)
		}
		return Eval(t.Else)

	default:
		return quantity.Quantity{}, fmt.Errorf("expr: unsupported node type %T", n)
	}
}

// EvalBool evaluates a node expected to produce a truth value. Comparisons
// are the usual source; any dimensionless value is accepted, with nonzero
// meaning true.
func EvalBool(n Node) (bool, error) {
	q, err := Eval(n)
	if err != nil {
		return false, err
	}
	if !q.Sig().IsDimensionless() {
		return false, fmt.Errorf("expr: condition must be dimensionless, got %s", q.Sig())
	}
	return q.Value != 0, nil
}

func evalBinary(op string, left, right quantity.Quantity) (quantity.Quantity, error) {
	switch op {
	case "+":
		return quantity.Add(left, right)
	case "-":
		return quantity.Sub(left, right)
	case "*":
		return quantity.Mul(left, right)
	case "/":
		return quantity.Div(left, right)
	default:
		return quantity.Quantity{}, fmt.Errorf("expr: unknown binary operator %q", op)
	}
}

func compareHolds(op string, cmp int) bool {
	switch op {
	case "==":
		return cmp == 0
	case "!=":
		return cmp != 0
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	default:
		return false
	}
}

func boolQuantity(b bool) quantity.Quantity {
	if b {
		return quantity.Dimensionless(1)
	}
	return quantity.Dimensionless(0)
}
