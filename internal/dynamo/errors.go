package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for spring bone operations.
var (
	// ErrInvalidConfig indicates a chain config that cannot be activated (no roots).
	ErrInvalidConfig = errors.New("dynamo: invalid chain config")

	// ErrDegenerateRestPose indicates a zero-length child target at rest.
	ErrDegenerateRestPose = errors.New("dynamo: degenerate rest pose (zero-length bone)")

	// ErrMissingNode indicates a config references a scene node that does not exist.
	ErrMissingNode = errors.New("dynamo: referenced scene node does not exist")

	// ErrDanglingReference indicates a tracked scene node was destroyed externally.
	ErrDanglingReference = errors.New("dynamo: scene node destroyed while tracked")

	// ErrNumericDegeneracy indicates a zero-length vector reached a normalization.
	ErrNumericDegeneracy = errors.New("dynamo: zero-length vector in normalization")

	// ErrUnknownChain indicates a stale or foreign chain handle.
	ErrUnknownChain = errors.New("dynamo: unknown chain handle")

	// ErrWorldClosed indicates use of a world after Close.
	ErrWorldClosed = errors.New("dynamo: world closed")
)

// ActivationError wraps an error with the chain and root node being activated.
type ActivationError struct {
	Chain   string
	Root    uint32
	Wrapped error
}

func (e *ActivationError) Error() string {
	if e.Chain == "" {
		return fmt.Sprintf("activate root %d: %v", e.Root, e.Wrapped)
	}
	return fmt.Sprintf("activate %q root %d: %v", e.Chain, e.Root, e.Wrapped)
}

func (e *ActivationError) Unwrap() error {
	return e.Wrapped
}

// IsSilent reports whether err is an activation failure that the
// authoring workflow tolerates without surfacing it to the caller.
func IsSilent(err error) bool {
	return errors.Is(err, ErrInvalidConfig) || errors.Is(err, ErrDegenerateRestPose)
}
