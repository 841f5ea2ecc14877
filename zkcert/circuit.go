package zkcert

import (
	"math/big"

	"github.com/consensys/gnark/frontend"
)

// circuit is the gnark form of a Program. The instruction list is a
// compile-time constant baked into the constraint system; Values is the
// public slot vector a certificate commits to.
type circuit struct {
	Values []frontend.Variable `gnark:",public"`

	prog []Instruction
}

func (c *circuit) Define(api frontend.API) error {
	scale := big.NewInt(Scale)
	for _, ins := range c.prog {
		l := c.Values[ins.Left]
		out := c.Values[ins.Out]
		switch ins.Op {
		case OpAdd:
			api.AssertIsEqual(out, api.Add(l, c.Values[ins.Right]))
		case OpSub:
			api.AssertIsEqual(l, api.Add(out, c.Values[ins.Right]))
		case OpMul:
			api.AssertIsEqual(api.Mul(out, scale), api.Mul(l, c.Values[ins.Right]))
		case OpDiv:
			api.AssertIsEqual(api.Mul(out, c.Values[ins.Right]), api.Mul(l, scale))
		case OpCopy:
			api.AssertIsEqual(out, l)
		}
	}
	return nil
}

// blank returns a circuit shell for compilation: slot count fixed, values
// unset.
func (p *Program) blank() *circuit {
	return &circuit{
		Values: make([]frontend.Variable, len(p.slots)),
		prog:   p.prog,
	}
}

// assignment returns a witness-bearing circuit for the given slot values.
func (p *Program) assignment(slots []*big.Int) *circuit {
	values := make([]frontend.Variable, len(slots))
	for i, v := range slots {
		values[i] = v
	}
	return &circuit{Values: values, prog: p.prog}
}
