package solve

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnresolved is the sentinel for fixed points reached with unknowns
	// remaining and no equation left to attempt.
	ErrUnresolved = errors.New("solve: unresolved variables remain")

	// ErrNoConvergence is the sentinel for simultaneous iteration hitting
	// its cap with residuals above tolerance.
	ErrNoConvergence = errors.New("solve: iteration did not converge")

	// ErrReentrantSolve is returned when a solve is started while another
	// is mid-flight over the same state; allowing it would corrupt the
	// fixed-point loop's progress bookkeeping.
	ErrReentrantSolve = errors.New("solve: solve already in progress")
)

// UnresolvedError names the variables the engine could not resolve.
type UnresolvedError struct {
	Names []string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("solve: unresolved variables: %s", strings.Join(e.Names, ", "))
}

// Is makes the error match ErrUnresolved.
func (e *UnresolvedError) Is(target error) bool { return target == ErrUnresolved }

// ConvergenceError reports a coupled component that missed tolerance within
// the iteration cap, carrying the final residual vector.
type ConvergenceError struct {
	Names      []string  // unresolved variables, parallel to Residuals
	Residuals  []float64 // final residual per equation
	Iterations int
	Tolerance  float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("solve: no convergence for [%s] after %d iterations (max residual %g, tolerance %g)",
		strings.Join(e.Names, ", "), e.Iterations, e.MaxResidual(), e.Tolerance)
}

// Is makes the error match ErrNoConvergence.
func (e *ConvergenceError) Is(target error) bool { return target == ErrNoConvergence }

// MaxResidual returns the largest residual magnitude.
func (e *ConvergenceError) MaxResidual() float64 {
	max := 0.0
	for _, r := range e.Residuals {
		if r < 0 {
			r = -r
		}
		if r > max {
			max = r
		}
	}
	return max
}
