// Package zkcert certifies solved equation sets with zero-knowledge proofs.
// Solved values are quantized to fixed-point integers, each equation is
// compiled to an arithmetic constraint program, and a Groth16 proof attests
// that the published values satisfy every constraint. Anyone holding the
// verifying key can check a result without re-running the solver.
package zkcert

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/holiman/uint256"
)

// Scale is the fixed-point denominator. Six decimal digits covers the
// precision the solver's default tolerance guarantees.
const Scale = 1_000_000

var (
	// ErrRange is returned when a value does not fit the fixed-point
	// range (256-bit magnitude at Scale).
	ErrRange = errors.New("zkcert: value out of fixed-point range")

	// ErrInexact is returned when the quantized values do not satisfy a
	// constraint exactly. Certification is strict: a relation that only
	// holds approximately at Scale precision cannot be proven.
	ErrInexact = errors.New("zkcert: relation not exact at fixed-point precision")

	// ErrUnsupported is returned for expressions outside the certifiable
	// subset (comparisons, conditionals, abs).
	ErrUnsupported = errors.New("zkcert: expression not certifiable")
)

// Quantize converts a base-unit value to a signed fixed-point integer.
// The magnitude is bounded through uint256 so every quantized value fits a
// field element with room for one multiplication.
func Quantize(x float64) (*big.Int, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil, fmt.Errorf("%w: %v", ErrRange, x)
	}
	scaled := new(big.Float).Mul(big.NewFloat(x), big.NewFloat(Scale))
	rounded, _ := scaled.Add(scaled, big.NewFloat(sign(x)*0.5)).Int(nil)
	mag := new(big.Int).Abs(rounded)
	if _, overflow := uint256.FromBig(mag); overflow {
		return nil, fmt.Errorf("%w: %v", ErrRange, x)
	}
	return rounded, nil
}

// Dequantize converts a fixed-point integer back to a float64.
func Dequantize(v *big.Int) float64 {
	f, _ := new(big.Float).Quo(new(big.Float).SetInt(v), big.NewFloat(Scale)).Float64()
	return f
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
