package unit

import (
	"errors"
	"fmt"

	"github.com/quanta-xyz/go-quanta/dim"
)

// ErrNotFound is the sentinel for unit lookup failures.
var ErrNotFound = errors.New("unit: not found")

// NotFoundError reports a unit name that is not registered, or is registered
// under a different dimension than the one requested.
type NotFoundError struct {
	Name           string
	Sig            dim.Signature
	WrongDimension bool
}

func (e *NotFoundError) Error() string {
	if e.WrongDimension {
		return fmt.Sprintf("unit: %q is not registered for dimension %s", e.Name, e.Sig)
	}
	return fmt.Sprintf("unit: %q is not registered", e.Name)
}

// Is makes the error match ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
