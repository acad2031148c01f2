package sync

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/offlinesync/notekeeper/internal/logger"
)

// Purger physically removes expired tombstones for one tracked entity type.
// Repositories of tracked types implement it and register with the Reaper.
type Purger interface {
	// EntityType names the tracked type, e.g. "notebook".
	EntityType() string

	// PurgeTombstones deletes every tombstone whose updated timestamp is
	// older than olderThan and returns the number of rows removed.
	PurgeTombstones(ctx context.Context, olderThan time.Time) (int64, error)
}

// TypeCount is one entry of a sweep report: rows removed for one type.
type TypeCount struct {
	Type    string `json:"type"`
	Removed int64  `json:"removed"`
}

// Reaper is the long-horizon counterpart to per-parent tombstone eviction:
// it bounds storage globally by age, purging tombstones older than the
// configured retention period across all tracked entity types.
type Reaper struct {
	purgers       []Purger
	retentionDays int
	logger        *logger.Logger

	now     func() time.Time
	running atomic.Bool
}

// NewReaper constructs a Reaper over the given purgers. retentionDays <= 0
// disables reaping entirely; Sweep becomes a no-op.
//
// Purgers run in registration order. Register child types before their
// parent types so a child tombstone is always purged, and counted, under its
// own type rather than disappearing with its parent.
func NewReaper(retentionDays int, log *logger.Logger, purgers ...Purger) *Reaper {
	return &Reaper{
		purgers:       purgers,
		retentionDays: retentionDays,
		logger:        log,
		now:           time.Now,
	}
}

// Sweep purges expired tombstones for every registered type and reports the
// per-type removed counts in registration order.
//
// At most one sweep runs at a time; a concurrent call fails with
// [ErrSweepInProgress]. When a purger fails the sweep stops and returns the
// counts accumulated so far along with the error.
func (r *Reaper) Sweep(ctx context.Context) ([]TypeCount, error) {
	if r.retentionDays <= 0 {
		return nil, nil
	}

	if !r.running.CompareAndSwap(false, true) {
		return nil, ErrSweepInProgress
	}
	defer r.running.Store(false)

	threshold := r.now().AddDate(0, 0, -r.retentionDays)

	counts := make([]TypeCount, 0, len(r.purgers))
	for _, purger := range r.purgers {
		removed, err := purger.PurgeTombstones(ctx, threshold)
		if err != nil {
			r.logger.Err(err).
				Str("func", "Reaper.Sweep").
				Str("type", purger.EntityType()).
				Msg("failed to purge expired tombstones")
			return counts, err
		}

		r.logger.Info().
			Str("func", "Reaper.Sweep").
			Str("type", purger.EntityType()).
			Int64("removed", removed).
			Time("threshold", threshold).
			Msg("purged expired tombstones")

		counts = append(counts, TypeCount{Type: purger.EntityType(), Removed: removed})
	}

	return counts, nil
}
