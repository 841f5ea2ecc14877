// Package solve drives equation sets to a fixed point. Acyclic parts of the
// dependency graph are solved by substitution: full scans over the
// equations, firing every one that can fire, repeated until a scan makes no
// progress. Coupled (cyclic) parts fall back to simultaneous numeric
// iteration, a damped Newton method with finite-difference sensitivities.
package solve

// Options contains solver configuration parameters.
type Options struct {
	Tolerance      float64 // Maximum residual magnitude accepted as converged
	MaxIterations  int     // Iteration cap for the simultaneous solver
	Damping        float64 // Newton step scale in (0, 1]
	FiniteDiffStep float64 // Relative step for finite-difference sensitivities
	RequireFull    bool    // Treat any unresolved variable as an error
}

// DefaultOptions returns balanced settings suitable for most problems.
func DefaultOptions() *Options {
	return &Options{
		Tolerance:      1e-9,
		MaxIterations:  100,
		Damping:        1.0,
		FiniteDiffStep: 1e-6,
	}
}

// FastOptions trades precision for speed. Use for interactive re-solving
// where a loose answer now beats a tight answer later.
func FastOptions() *Options {
	return &Options{
		Tolerance:      1e-5,
		MaxIterations:  25,
		Damping:        1.0,
		FiniteDiffStep: 1e-4,
	}
}

// AccurateOptions returns options for high-precision solving of poorly
// conditioned systems: tighter tolerance, more iterations, damped updates.
func AccurateOptions() *Options {
	return &Options{
		Tolerance:      1e-12,
		MaxIterations:  500,
		Damping:        0.8,
		FiniteDiffStep: 1e-8,
	}
}

func (o *Options) withDefaults() *Options {
	out := *o
	if out.Tolerance <= 0 {
		out.Tolerance = 1e-9
	}
	if out.MaxIterations <= 0 {
		out.MaxIterations = 100
	}
	if out.Damping <= 0 || out.Damping > 1 {
		out.Damping = 1.0
	}
	if out.FiniteDiffStep <= 0 {
		out.FiniteDiffStep = 1e-6
	}
	return &out
}
