// Package expr implements lazy expression trees over variables, quantities,
// and literals. Building a tree performs no arithmetic; operators are
// constructor functions that wrap their operands into nodes, keeping all
// evaluation and dimension checking in one place. A tree is immutable once
// built and may be evaluated repeatedly as more variables become known,
// because variable references read the live variable rather than a frozen
// snapshot.
package expr

import (
	"fmt"

	"github.com/quanta-xyz/go-quanta/quantity"
	"github.com/quanta-xyz/go-quanta/unit"
	"github.com/quanta-xyz/go-quanta/variable"
)

// Node is an expression tree node.
type Node interface {
	isNode()
	String() string
}

// Literal holds a concrete quantity.
type Literal struct {
	Value quantity.Quantity
}

// Ref reads a live variable at evaluation time.
type Ref struct {
	Var *variable.Variable
}

// Binary applies an arithmetic operation to two subtrees.
type Binary struct {
	Op    string // "+", "-", "*", "/"
	Left  Node
	Right Node
}

// Unary applies a single-operand operation.
type Unary struct {
	Op      string // "-", "abs"
	Operand Node
}

// Compare evaluates to dimensionless 1 or 0.
type Compare struct {
	Op    string // "==", "!=", "<", "<=", ">", ">="
	Left  Node
	Right Node
}

// Conditional selects a branch by its condition. Only the selected branch is
// evaluated, so references in the unselected branch need not be known and
// the two branches may even differ in dimension.
type Conditional struct {
	Cond Node
	Then Node
	Else Node
}

func (*Literal) isNode()     {}
func (*Ref) isNode()         {}
func (*Binary) isNode()      {}
func (*Unary) isNode()       {}
func (*Compare) isNode()     {}
func (*Conditional) isNode() {}

func (n *Literal) String() string { return n.Value.String() }
func (n *Ref) String() string     { return n.Var.Name() }
func (n *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Left, n.Op, n.Right)
}
func (n *Unary) String() string {
	if n.Op == "-" {
		return fmt.Sprintf("-%s", n.Operand)
	}
	return fmt.Sprintf("%s(%s)", n.Op, n.Operand)
}
func (n *Compare) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Left, n.Op, n.Right)
}
func (n *Conditional) String() string {
	return fmt.Sprintf("if(%s, %s, %s)", n.Cond, n.Then, n.Else)
}

// Lit wraps a quantity into a literal node.
func Lit(q quantity.Quantity) Node { return &Literal{Value: q} }

// Const wraps a raw value and unit into a literal node.
func Const(v float64, u unit.Unit) Node { return &Literal{Value: quantity.New(v, u)} }

// Num wraps a dimensionless number.
func Num(v float64) Node { return &Literal{Value: quantity.Dimensionless(v)} }

// Var wraps a variable reference.
func Var(v *variable.Variable) Node { return &Ref{Var: v} }

// Add returns l + r as a deferred node.
func Add(l, r Node) Node { return &Binary{Op: "+", Left: l, Right: r} }

// Sub returns l - r as a deferred node.
func Sub(l, r Node) Node { return &Binary{Op: "-", Left: l, Right: r} }

// Mul returns l * r as a deferred node.
func Mul(l, r Node) Node { return &Binary{Op: "*", Left: l, Right: r} }

// Div returns l / r as a deferred node.
func Div(l, r Node) Node { return &Binary{Op: "/", Left: l, Right: r} }

// Neg returns -n.
func Neg(n Node) Node { return &Unary{Op: "-", Operand: n} }

// Abs returns |n|.
func Abs(n Node) Node { return &Unary{Op: "abs", Operand: n} }

// Eq returns the comparison l == r.
func Eq(l, r Node) Node { return &Compare{Op: "==", Left: l, Right: r} }

// Ne returns the comparison l != r.
func Ne(l, r Node) Node { return &Compare{Op: "!=", Left: l, Right: r} }

// Lt returns the comparison l < r.
func Lt(l, r Node) Node { return &Compare{Op: "<", Left: l, Right: r} }

// Le returns the comparison l <= r.
func Le(l, r Node) Node { return &Compare{Op: "<=", Left: l, Right: r} }

// Gt returns the comparison l > r.
func Gt(l, r Node) Node { return &Compare{Op: ">", Left: l, Right: r} }

// Ge returns the comparison l >= r.
func Ge(l, r Node) Node { return &Compare{Op: ">=", Left: l, Right: r} }

// If returns a conditional node.
func If(cond, then, els Node) Node {
	return &Conditional{Cond: cond, Then: then, Else: els}
}

// Vars returns the distinct variables referenced anywhere in the tree, in
// first-reference order. Conditional branches are included whether or not
// they would be taken: the dependency graph is built statically.
func Vars(n Node) []*variable.Variable {
	seen := make(map[*variable.Variable]bool)
	var out []*variable.Variable
	walk(n, func(node Node) {
		if ref, ok := node.(*Ref); ok && !seen[ref.Var] {
			seen[ref.Var] = true
			out = append(out, ref.Var)
		}
	})
	return out
}

// References reports whether the tree contains a reference to v.
func References(n Node, v *variable.Variable) bool {
	found := false
	walk(n, func(node Node) {
		if ref, ok := node.(*Ref); ok && ref.Var == v {
			found = true
		}
	})
	return found
}

func walk(n Node, visit func(Node)) {
	if n == nil {
		return
	}
	visit(n)
	switch t := n.(type) {
	case *Binary:
		walk(t.Left, visit)
		walk(t.Right, visit)
	case *Unary:
		walk(t.Operand, visit)
	case *Compare:
		walk(t.Left, visit)
		walk(t.Right, visit)
	case *Conditional:
		walk(t.Cond, visit)
		walk(t.Then, visit)
		walk(t.Else, visit)
	}
}

// Rewrite returns a copy of the tree with every variable reference remapped
// through f. Nodes without references are shared, not copied; literals are
// immutable so sharing is safe. Problem composition uses this to point
// copied equations at the parent's copied variables.
func Rewrite(n Node, f func(*variable.Variable) *variable.Variable) Node {
	switch t := n.(type) {
	case *Literal:
		return t
	case *Ref:
		if mapped := f(t.Var); mapped != t.Var {
			return &Ref{Var: mapped}
		}
		return t
	case *Binary:
		return &Binary{Op: t.Op, Left: Rewrite(t.Left, f), Right: Rewrite(t.Right, f)}
	case *Unary:
		return &Unary{Op: t.Op, Operand: Rewrite(t.Operand, f)}
	case *Compare:
		return &Compare{Op: t.Op, Left: Rewrite(t.Left, f), Right: Rewrite(t.Right, f)}
	case *Conditional:
		return &Conditional{
			Cond: Rewrite(t.Cond, f),
			Then: Rewrite(t.Then, f),
			Else: Rewrite(t.Else, f),
		}
	default:
		return n
	}
}
