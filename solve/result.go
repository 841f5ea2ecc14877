package solve

// VarState tracks a variable through one solve invocation.
type VarState int

const (
	// StateUnknown: no value and nothing has been attempted yet.
	StateUnknown VarState = iota
	// StateAttempting: an equation targeting the variable is being tried
	// on the substitution path.
	StateAttempting
	// StateIterating: the variable is part of a coupled component under
	// simultaneous iteration.
	StateIterating
	// StateKnown: the variable holds a value. Terminal for the invocation
	// unless the caller explicitly resets it.
	StateKnown
	// StateUnresolved: solving finished without producing a value.
	StateUnresolved
)

func (s VarState) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateAttempting:
		return "attempting"
	case StateIterating:
		return "iterating"
	case StateKnown:
		return "known"
	case StateUnresolved:
		return "unresolved"
	default:
		return "?"
	}
}

// Solve status values.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
)

// Result is the structured outcome of one solve invocation. Unresolved
// variables and convergence failures are collected here rather than raised,
// so a caller can report "N of M solved" instead of aborting; an error is
// only returned when the caller demanded full resolution.
type Result struct {
	Status     string              `json:"status"`
	Solved     []string            `json:"solved,omitempty"`     // variables resolved by this invocation
	Unresolved []string            `json:"unresolved,omitempty"` // variables left unknown
	Residuals  map[string]float64  `json:"residuals,omitempty"`  // final residual per convergence-failed variable
	Passes     int                 `json:"passes"`               // substitution scans performed
	Iterations int                 `json:"iterations"`           // total simultaneous iterations
	States     map[string]VarState `json:"-"`

	// Failures holds per-component convergence errors; nil when every
	// coupled component converged.
	Failures []*ConvergenceError `json:"-"`
}

// FullySolved reports whether no variable was left unresolved.
func (r *Result) FullySolved() bool { return len(r.Unresolved) == 0 }
