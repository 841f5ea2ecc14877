package zkcert

import (
	"bytes"
	"fmt"
	"math/big"
	"sync"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
)

// Certifier compiles programs into constraint systems and issues Groth16
// certificates over solved values. Safe for concurrent use.
type Certifier struct {
	mu       sync.RWMutex
	circuits map[string]*compiled
	curve    ecc.ID
}

type compiled struct {
	prog         *Program
	cs           constraint.ConstraintSystem
	provingKey   groth16.ProvingKey
	verifyingKey groth16.VerifyingKey
}

// Certificate is a proof that a set of values satisfies a registered
// program. Values holds the full public slot vector, Proof the serialized
// Groth16 proof.
type Certificate struct {
	Program string     `json:"program"`
	Values  []*big.Int `json:"values"`
	Proof   []byte     `json:"proof"`
}

// NewCertifier returns a certifier on BN254.
func NewCertifier() *Certifier {
	return &Certifier{
		circuits: make(map[string]*compiled),
		curve:    ecc.BN254,
	}
}

// Register compiles the program to R1CS and runs the Groth16 setup under
// the given name. Setup here is a single-party ceremony, which is enough
// for result attestation between parties that trust the registrar.
func (c *Certifier) Register(name string, prog *Program) error {
	cs, err := frontend.Compile(c.curve.ScalarField(), r1cs.NewBuilder, prog.blank())
	if err != nil {
		return fmt.Errorf("zkcert: compile %q: %w", name, err)
	}
	pk, vk, err := groth16.Setup(cs)
	if err != nil {
		return fmt.Errorf("zkcert: setup %q: %w", name, err)
	}
	c.mu.Lock()
	c.circuits[name] = &compiled{prog: prog, cs: cs, provingKey: pk, verifyingKey: vk}
	c.mu.Unlock()
	return nil
}

// Constraints returns the constraint count of a registered program.
func (c *Certifier) Constraints(name string) (int, error) {
	cc, err := c.get(name)
	if err != nil {
		return 0, err
	}
	return cc.cs.GetNbConstraints(), nil
}

// Certify proves that the given base-unit values satisfy the named
// program's constraints and returns the certificate.
func (c *Certifier) Certify(name string, values map[string]float64) (*Certificate, error) {
	cc, err := c.get(name)
	if err != nil {
		return nil, err
	}
	slots, err := cc.prog.Assign(values)
	if err != nil {
		return nil, err
	}
	witness, err := frontend.NewWitness(cc.prog.assignment(slots), c.curve.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("zkcert: witness: %w", err)
	}
	proof, err := groth16.Prove(cc.cs, cc.provingKey, witness)
	if err != nil {
		return nil, fmt.Errorf("zkcert: prove: %w", err)
	}
	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("zkcert: serialize proof: %w", err)
	}
	return &Certificate{Program: name, Values: slots, Proof: buf.Bytes()}, nil
}

// Verify checks a certificate against the named program's verifying key.
func (c *Certifier) Verify(name string, cert *Certificate) error {
	cc, err := c.get(name)
	if err != nil {
		return err
	}
	if cert.Program != name {
		return fmt.Errorf("zkcert: certificate is for %q, not %q", cert.Program, name)
	}
	witness, err := frontend.NewWitness(
		cc.prog.assignment(cert.Values), c.curve.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return fmt.Errorf("zkcert: public witness: %w", err)
	}
	proof := groth16.NewProof(c.curve)
	if _, err := proof.ReadFrom(bytes.NewReader(cert.Proof)); err != nil {
		return fmt.Errorf("zkcert: parse proof: %w", err)
	}
	if err := groth16.Verify(proof, cc.verifyingKey, witness); err != nil {
		return fmt.Errorf("zkcert: verify: %w", err)
	}
	return nil
}

func (c *Certifier) get(name string) (*compiled, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cc, ok := c.circuits[name]
	if !ok {
		return nil, fmt.Errorf("zkcert: program %q not registered", name)
	}
	return cc, nil
}
