package sync

import (
	"fmt"
	"net/url"
	"time"
)

// WriteConditions holds the optimistic-concurrency token for a single write
// request. A nil At means the write is unconditional.
type WriteConditions struct {
	At *time.Time
}

// ParseWriteConditions validates the query parameters of an update/delete
// request. The conditional timestamp (at) is the only permitted parameter;
// anything else fails with [ErrValidation].
func ParseWriteConditions(values url.Values) (WriteConditions, error) {
	for param := range values {
		if param != AtParam {
			return WriteConditions{}, validationError(param, "unsupported condition")
		}
	}

	at, err := ParseTimestamp(values, AtParam)
	if err != nil {
		return WriteConditions{}, err
	}

	return WriteConditions{At: at}, nil
}

// Check asserts that the client mutates the version it last observed: when
// a conditional timestamp is present it must exactly equal the entity's
// current updated value, at the store's timestamp granularity.
//
// Returns [ErrConflict] on mismatch, nil otherwise.
func (c WriteConditions) Check(updated time.Time) error {
	if c.At == nil {
		return nil
	}

	if !updated.Truncate(Granularity).Equal(c.At.Truncate(Granularity)) {
		return fmt.Errorf("%w: updated %s does not match condition %s",
			ErrConflict,
			updated.UTC().Format(time.RFC3339Nano),
			c.At.UTC().Format(time.RFC3339Nano))
	}

	return nil
}
