package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/offlinesync/notekeeper/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePurger struct {
	entityType string
	removed    int64
	err        error

	gotOlderThan time.Time
	started      chan struct{}
	release      chan struct{}
	onPurge      func()
}

func (p *fakePurger) EntityType() string { return p.entityType }

func (p *fakePurger) PurgeTombstones(_ context.Context, olderThan time.Time) (int64, error) {
	p.gotOlderThan = olderThan

	if p.onPurge != nil {
		p.onPurge()
	}

	if p.started != nil {
		close(p.started)
	}
	if p.release != nil {
		<-p.release
	}

	return p.removed, p.err
}

func TestReaper_Sweep_Disabled(t *testing.T) {
	purger := &fakePurger{entityType: "notebook"}
	reaper := NewReaper(0, logger.Nop(), purger)

	counts, err := reaper.Sweep(context.Background())

	require.NoError(t, err)
	assert.Nil(t, counts)
	assert.True(t, purger.gotOlderThan.IsZero(), "disabled reaper must not purge")
}

func TestReaper_Sweep_ReportsCountsInOrder(t *testing.T) {
	notebooks := &fakePurger{entityType: "notebook", removed: 3}
	notes := &fakePurger{entityType: "note", removed: 7}

	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	reaper := NewReaper(30, logger.Nop(), notebooks, notes)
	reaper.now = func() time.Time { return now }

	counts, err := reaper.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []TypeCount{
		{Type: "notebook", Removed: 3},
		{Type: "note", Removed: 7},
	}, counts)

	threshold := now.AddDate(0, 0, -30)
	assert.True(t, threshold.Equal(notebooks.gotOlderThan))
	assert.True(t, threshold.Equal(notes.gotOlderThan))
}

func TestReaper_Sweep_PurgesInRegistrationOrder(t *testing.T) {
	var order []string
	notes := &fakePurger{entityType: "note", onPurge: func() { order = append(order, "note") }}
	notebooks := &fakePurger{entityType: "notebook", onPurge: func() { order = append(order, "notebook") }}

	reaper := NewReaper(30, logger.Nop(), notes, notebooks)

	_, err := reaper.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"note", "notebook"}, order, "child tombstones must be purged before their parents")
}

func TestReaper_Sweep_StopsOnError(t *testing.T) {
	errPurge := errors.New("purge failed")
	notebooks := &fakePurger{entityType: "notebook", err: errPurge}
	notes := &fakePurger{entityType: "note", removed: 7}

	reaper := NewReaper(30, logger.Nop(), notebooks, notes)

	counts, err := reaper.Sweep(context.Background())

	require.ErrorIs(t, err, errPurge)
	assert.Empty(t, counts)
	assert.True(t, notes.gotOlderThan.IsZero(), "sweep must stop at the failing purger")
}

func TestReaper_Sweep_SingleFlight(t *testing.T) {
	blocking := &fakePurger{
		entityType: "notebook",
		started:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	reaper := NewReaper(30, logger.Nop(), blocking)

	done := make(chan error, 1)
	go func() {
		_, err := reaper.Sweep(context.Background())
		done <- err
	}()

	<-blocking.started

	_, err := reaper.Sweep(context.Background())
	require.ErrorIs(t, err, ErrSweepInProgress)

	close(blocking.release)
	require.NoError(t, <-done)

	// the slot is free again after the first sweep finishes
	blocking.started = nil
	blocking.release = nil
	_, err = reaper.Sweep(context.Background())
	require.NoError(t, err)
}
