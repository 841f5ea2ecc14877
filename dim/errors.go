package dim

import (
	"errors"
	"fmt"
)

// ErrMismatch is the sentinel for all dimension incompatibility errors.
// Use errors.Is(err, ErrMismatch) to classify; the concrete error is a
// *MismatchError carrying both signatures.
var ErrMismatch = errors.New("dim: dimension mismatch")

// MismatchError reports an invalid composition of two signatures.
type MismatchError struct {
	Left  Signature
	Right Signature
	Op    Op
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("dim: incompatible dimensions %s and %s for %q", e.Left, e.Right, e.Op)
}

// Is makes the error match ErrMismatch.
func (e *MismatchError) Is(target error) bool { return target == ErrMismatch }
