package verlet

import (
	"errors"
	"fmt"
)

// Domain errors for world operations.
var (
	// ErrMissingParticle indicates a link endpoint that no longer exists.
	ErrMissingParticle = errors.New("verlet: link references a missing particle")

	// ErrStaleID indicates an identity whose slot has been reused or freed.
	ErrStaleID = errors.New("verlet: stale or unknown identity")

	// ErrInvalidDt indicates a negative or non-finite time step.
	ErrInvalidDt = errors.New("verlet: time step must be finite and non-negative")

	// ErrSelfLink indicates a link whose endpoints are the same particle.
	ErrSelfLink = errors.New("verlet: link endpoints must differ")
)

// TickError wraps an error with the tick it occurred in.
type TickError struct {
	Tick    uint64
	Link    LinkID
	Wrapped error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("tick %d link %v: %v", e.Tick, e.Link, e.Wrapped)
}

func (e *TickError) Unwrap() error {
	return e.Wrapped
}
