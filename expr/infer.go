package expr

import (
	"github.com/quanta-xyz/go-quanta/dim"
)

// InferSig derives the tree's dimensional signature without evaluating it,
// where that is statically possible. The second return is false when the
// signature cannot be determined (for example a conditional whose branches
// disagree, which is legal because only one branch is ever taken).
//
// Inference never fails on unknown variables: a variable's dimension is
// fixed at declaration even while its value is unknown.
func InferSig(n Node) (dim.Signature, bool) {
	switch t := n.(type) {
	case *Literal:
		return t.Value.Sig(), true

	case *Ref:
		return t.Var.Sig(), true

	case *Binary:
		left, lok := InferSig(t.Left)
		right, rok := InferSig(t.Right)
		switch t.Op {
		case "+", "-":
			// Either side determines the result; evaluation enforces
			// the equality.
			if lok {
				return left, true
			}
			if rok {
				return right, true
			}
			return dim.Signature{}, false
		case "*":
			if lok && rok {
				return left.Mul(right), true
			}
			return dim.Signature{}, false
		case "/":
			if lok && rok {
				return left.Div(right), true
			}
			return dim.Signature{}, false
		default:
			return dim.Signature{}, false
		}

	case *Unary:
		return InferSig(t.Operand)

	case *Compare:
		return dim.Dimensionless, true

	case *Conditional:
		then, tok := InferSig(t.Then)
		els, eok := InferSig(t.Else)
		if tok && eok && then.Equal(els) {
			return then, true
		}
		// Branches of different dimension are allowed; which one applies
		// is only known at evaluation time.
		return dim.Signature{}, false

	default:
		return dim.Signature{}, false
	}
}

// Resolvable reports whether every variable reference that evaluation would
// need is currently known. References inside a conditional's unselected
// branch are excluded when the condition itself is resolvable.
func Resolvable(n Node) bool {
	switch t := n.(type) {
	case *Literal:
		return true
	case *Ref:
		return t.Var.IsKnown()
	case *Binary:
		return Resolvable(t.Left) && Resolvable(t.Right)
	case *Unary:
		return Resolvable(t.Operand)
	case *Compare:
		return Resolvable(t.Left) && Resolvable(t.Right)
	case *Conditional:
		if !Resolvable(t.Cond) {
			return false
		}
		taken, err := EvalBool(t.Cond)
		if err != nil {
			return false
		}
		if taken {
			return Resolvable(t.Then)
		}
		return Resolvable(t.Else)
	default:
		return false
	}
}
