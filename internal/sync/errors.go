package sync

import (
	"errors"
	"fmt"
)

// Sentinel errors produced by the protocol core. Callers match them with
// [errors.Is]; the HTTP layer maps each to a wire status.
var (
	// ErrValidation is returned when a since, until or at query parameter is
	// duplicated, malformed or lacks timezone information, or when a write
	// request carries an unsupported query parameter.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a parent or child row does not exist or
	// does not satisfy the configured deletion-state filter.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when the conditional timestamp supplied by the
	// client does not match the entity's current updated value. The mutation
	// is not applied and the enclosing transaction is rolled back.
	ErrConflict = errors.New("conflict")

	// ErrLimitExceeded is returned when creating (or reparenting) a child
	// would push its parent's active-child count past the configured limit.
	ErrLimitExceeded = errors.New("limit exceeded")

	// ErrClockRegression is returned when the wall clock is observed behind
	// an entity's recorded updated timestamp. The condition is terminal: the
	// monotonicity guarantee cannot be upheld, so the operation aborts
	// instead of waiting.
	ErrClockRegression = errors.New("updated timestamp is in the future")

	// ErrClockStalled is returned when the wall clock fails to advance past
	// an entity's updated timestamp within the bounded monotonicity wait.
	ErrClockStalled = errors.New("clock did not advance past updated timestamp")

	// ErrSweepInProgress is returned when a reaper sweep is requested while
	// another sweep is still running. At most one sweep is ever in flight.
	ErrSweepInProgress = errors.New("reaper sweep already in progress")
)

func validationError(param, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrValidation, param, reason)
}

// LimitExceededError builds an [ErrLimitExceeded] carrying the numeric limit
// and the type names for diagnostics, e.g.
// "limit exceeded: exceeded limit of 3 notes per notebook".
func LimitExceededError(limit int, childType, parentType string) error {
	return fmt.Errorf("%w: exceeded limit of %d %ss per %s", ErrLimitExceeded, limit, childType, parentType)
}
