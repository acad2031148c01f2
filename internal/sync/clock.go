package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	// clockStep is the granularity of the bounded monotonicity wait.
	clockStep = time.Millisecond

	// maxClockSteps bounds the wait: a clock that fails to advance past an
	// entity's updated value within maxClockSteps steps aborts the write
	// with [ErrClockStalled] instead of spinning forever.
	maxClockSteps = 2000
)

// Clock produces strictly increasing updated timestamps for tracked rows.
//
// Every mutation of an entity must record an updated value greater than the
// one before it, even when two writes land within the same timestamp
// granule; otherwise a polling client whose since equals the first write's
// updated would silently skip the second write.
type Clock struct {
	now func() time.Time
}

// NewClock constructs a Clock backed by the wall clock.
func NewClock() *Clock {
	return &Clock{now: time.Now}
}

func newClockWith(now func() time.Time) *Clock {
	return &Clock{now: now}
}

// Now returns the current time truncated to the store's timestamp
// granularity. It seeds the created/updated columns of freshly inserted
// rows.
func (c *Clock) Now() time.Time {
	return c.now().Truncate(Granularity)
}

// NextUpdated returns the new updated value for a mutation of an entity
// whose current updated timestamp is current.
//
// When the wall clock already exceeds current, the current time is returned
// immediately. When the clock reads exactly current (a write within the same
// granule), NextUpdated waits in bounded millisecond steps until the clock
// moves past it. A wall clock observed *behind* current is a clock
// regression and fails with [ErrClockRegression]: proceeding would hand out
// an updated value that is not strictly increasing.
func (c *Clock) NextUpdated(ctx context.Context, current time.Time) (time.Time, error) {
	current = current.Truncate(Granularity)

	var next time.Time

	backoff := retry.WithMaxRetries(maxClockSteps, retry.NewConstant(clockStep))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		now := c.now().Truncate(Granularity)

		if now.After(current) {
			next = now
			return nil
		}

		if current.After(now) {
			return fmt.Errorf("%w: updated %s is ahead of wall clock %s",
				ErrClockRegression,
				current.UTC().Format(time.RFC3339Nano),
				now.UTC().Format(time.RFC3339Nano))
		}

		return retry.RetryableError(ErrClockStalled)
	})
	if err != nil {
		return time.Time{}, err
	}

	return next, nil
}
