package depgraph

import (
	"errors"
	"fmt"
)

// ErrDuplicateTarget is the sentinel for duplicate-target conflicts.
var ErrDuplicateTarget = errors.New("depgraph: duplicate equation target")

// DuplicateTargetError reports two equations in one solve pass targeting the
// same variable.
type DuplicateTargetError struct {
	Variable string
	First    string
	Second   string
}

func (e *DuplicateTargetError) Error() string {
	return fmt.Sprintf("depgraph: equations %q and %q both target variable %q",
		e.First, e.Second, e.Variable)
}

// Is makes the error match ErrDuplicateTarget.
func (e *DuplicateTargetError) Is(target error) bool { return target == ErrDuplicateTarget }
