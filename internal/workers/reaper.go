package workers

import (
	"context"
	"errors"
	"time"

	"github.com/offlinesync/notekeeper/internal/logger"
	"github.com/offlinesync/notekeeper/internal/sync"
)

// reaperWorker periodically sweeps expired tombstones. The sweep itself
// guarantees that at most one run is in flight, so overlapping ticks are
// logged and skipped rather than queued.
type reaperWorker struct {
	reaper   *sync.Reaper
	interval time.Duration
	logger   *logger.Logger
	stop     chan struct{}
}

// NewReaperWorker builds a background worker that sweeps every interval.
// A non-positive interval disables the worker.
func NewReaperWorker(reaper *sync.Reaper, interval time.Duration, logger *logger.Logger) Worker {
	return &reaperWorker{
		reaper:   reaper,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
	}
}

func (w *reaperWorker) Run() {
	if w.interval <= 0 {
		w.logger.Info().Msg("tombstone reaper worker disabled")
		return
	}

	w.logger.Info().Dur("interval", w.interval).Msg("tombstone reaper worker started")
	go w.loop()
}

// Stop ends the sweep loop. Safe to call repeatedly and on a worker whose
// Run never started the loop.
func (w *reaperWorker) Stop() {
	select {
	case <-w.stop:
	default:
		close(w.stop)
	}
}

func (w *reaperWorker) loop() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			w.logger.Info().Msg("tombstone reaper worker stopped")
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *reaperWorker) sweep() {
	counts, err := w.reaper.Sweep(context.Background())
	if err != nil {
		if errors.Is(err, sync.ErrSweepInProgress) {
			w.logger.Debug().Msg("previous reaper sweep still running, skipping tick")
			return
		}

		w.logger.Err(err).Msg("reaper sweep failed")
		return
	}

	for _, count := range counts {
		w.logger.Info().
			Str("type", count.Type).
			Int64("removed", count.Removed).
			Msg("expired tombstones purged")
	}
}
