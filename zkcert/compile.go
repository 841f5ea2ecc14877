package zkcert

import (
	"fmt"
	"math/big"

	"github.com/quanta-xyz/go-quanta/equation"
	"github.com/quanta-xyz/go-quanta/expr"
)

// OpCode identifies a constraint over three value slots.
type OpCode int

const (
	// OpAdd asserts out == left + right.
	OpAdd OpCode = iota
	// OpSub asserts left == out + right, i.e. out == left - right without
	// a subtraction gate.
	OpSub
	// OpMul asserts out * Scale == left * right, rescaling the product.
	OpMul
	// OpDiv asserts out * right == left * Scale, turning the division
	// into a multiplication the field can express.
	OpDiv
	// OpCopy asserts out == left.
	OpCopy
)

func (op OpCode) String() string {
	switch op {
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpMul:
		return "mul"
	case OpDiv:
		return "div"
	case OpCopy:
		return "copy"
	default:
		return "?"
	}
}

// Instruction is one constraint; Left, Right, Out index the slot table.
// OpCopy ignores Right.
type Instruction struct {
	Op    OpCode
	Left  int
	Right int
	Out   int
}

type slotKind int

const (
	slotVar slotKind = iota
	slotConst
	slotTemp
)

type slot struct {
	kind slotKind
	name string   // slotVar: the variable's name
	val  *big.Int // slotConst: the quantized constant
}

// Program is a compiled constraint list over a slot table. The slot layout
// and instruction list are fixed at compile time; only slot values vary
// between certifications.
type Program struct {
	slots []slot
	prog  []Instruction
	index map[string]int // variable name -> slot
}

// Compile translates equations into a constraint program. Only literal,
// reference, and +,-,*,/ nodes are certifiable; unary negation compiles to
// a subtraction from zero.
func Compile(eqs []*equation.Equation) (*Program, error) {
	p := &Program{index: make(map[string]int)}
	for _, eq := range eqs {
		out := p.varSlot(eq.Target.Name())
		if err := p.compileNode(eq.Expr, out); err != nil {
			return nil, fmt.Errorf("equation %q: %w", eq.Name, err)
		}
	}
	return p, nil
}

// Variables returns the names of all variable slots, in slot order.
func (p *Program) Variables() []string {
	var out []string
	for _, s := range p.slots {
		if s.kind == slotVar {
			out = append(out, s.name)
		}
	}
	return out
}

// Instructions returns the compiled constraint list.
func (p *Program) Instructions() []Instruction {
	return append([]Instruction(nil), p.prog...)
}

func (p *Program) varSlot(name string) int {
	if id, ok := p.index[name]; ok {
		return id
	}
	id := len(p.slots)
	p.slots = append(p.slots, slot{kind: slotVar, name: name})
	p.index[name] = id
	return id
}

func (p *Program) constSlot(v *big.Int) int {
	id := len(p.slots)
	p.slots = append(p.slots, slot{kind: slotConst, val: v})
	return id
}

func (p *Program) tempSlot() int {
	id := len(p.slots)
	p.slots = append(p.slots, slot{kind: slotTemp})
	return id
}

// compileNode emits constraints forcing slot out to equal the node's value.
func (p *Program) compileNode(n expr.Node, out int) error {
	switch t := n.(type) {
	case *expr.Binary:
		var op OpCode
		switch t.Op {
		case "+":
			op = OpAdd
		case "-":
			op = OpSub
		case "*":
			op = OpMul
		case "/":
			op = OpDiv
		default:
			return fmt.Errorf("%w: operator %q", ErrUnsupported, t.Op)
		}
		l, err := p.operand(t.Left)
		if err != nil {
			return err
		}
		r, err := p.operand(t.Right)
		if err != nil {
			return err
		}
		p.prog = append(p.prog, Instruction{Op: op, Left: l, Right: r, Out: out})
		return nil
	case *expr.Unary:
		if t.Op != "-" {
			return fmt.Errorf("%w: operator %q", ErrUnsupported, t.Op)
		}
		r, err := p.operand(t.Operand)
		if err != nil {
			return err
		}
		zero := p.constSlot(big.NewInt(0))
		p.prog = append(p.prog, Instruction{Op: OpSub, Left: zero, Right: r, Out: out})
		return nil
	case *expr.Ref, *expr.Literal:
		l, err := p.operand(n)
		if err != nil {
			return err
		}
		p.prog = append(p.prog, Instruction{Op: OpCopy, Left: l, Out: out})
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrUnsupported, n)
	}
}

// operand resolves a node to a slot, emitting constraints for sub-trees.
func (p *Program) operand(n expr.Node) (int, error) {
	switch t := n.(type) {
	case *expr.Ref:
		return p.varSlot(t.Var.Name()), nil
	case *expr.Literal:
		v, err := Quantize(t.Value.Base())
		if err != nil {
			return 0, err
		}
		return p.constSlot(v), nil
	case *expr.Binary, *expr.Unary:
		tmp := p.tempSlot()
		if err := p.compileNode(t, tmp); err != nil {
			return 0, err
		}
		return tmp, nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrUnsupported, n)
	}
}

// Assign produces the full slot vector for a set of solved base-unit
// values. Variable slots quantize their value, constants are baked in, and
// temporaries are executed from the instruction list with exact fixed-point
// arithmetic. An instruction whose output slot is already assigned acts as
// a check; any discrepancy means the values cannot be certified.
func (p *Program) Assign(values map[string]float64) ([]*big.Int, error) {
	out := make([]*big.Int, len(p.slots))
	for i, s := range p.slots {
		switch s.kind {
		case slotVar:
			v, ok := values[s.name]
			if !ok {
				return nil, fmt.Errorf("zkcert: no value for %q", s.name)
			}
			q, err := Quantize(v)
			if err != nil {
				return nil, fmt.Errorf("zkcert: %q: %w", s.name, err)
			}
			out[i] = q
		case slotConst:
			out[i] = s.val
		}
	}
	scale := big.NewInt(Scale)
	for _, ins := range p.prog {
		l, r := out[ins.Left], big.NewInt(0)
		if ins.Op != OpCopy {
			r = out[ins.Right]
		}
		var want *big.Int
		switch ins.Op {
		case OpAdd:
			want = new(big.Int).Add(l, r)
		case OpSub:
			want = new(big.Int).Sub(l, r)
		case OpMul:
			prod := new(big.Int).Mul(l, r)
			var rem big.Int
			want, _ = new(big.Int).QuoRem(prod, scale, &rem)
			if rem.Sign() != 0 {
				return nil, fmt.Errorf("%w: %s", ErrInexact, ins.Op)
			}
		case OpDiv:
			if r.Sign() == 0 {
				return nil, fmt.Errorf("zkcert: division by zero")
			}
			num := new(big.Int).Mul(l, scale)
			var rem big.Int
			want, _ = new(big.Int).QuoRem(num, r, &rem)
			if rem.Sign() != 0 {
				return nil, fmt.Errorf("%w: %s", ErrInexact, ins.Op)
			}
		case OpCopy:
			want = new(big.Int).Set(l)
		}
		if out[ins.Out] == nil {
			out[ins.Out] = want
			continue
		}
		if out[ins.Out].Cmp(want) != 0 {
			return nil, fmt.Errorf("%w: slot %d holds %s, constraint requires %s",
				ErrInexact, ins.Out, out[ins.Out], want)
		}
	}
	for i, v := range out {
		if v == nil {
			return nil, fmt.Errorf("zkcert: slot %d never assigned", i)
		}
	}
	return out, nil
}
