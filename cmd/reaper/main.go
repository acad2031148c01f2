// Command reaper runs a single tombstone expiry sweep and exits. It shares
// the server's configuration; schedule it with cron when the in-process
// reaper worker is disabled.
package main

import (
	"context"
	"fmt"

	"github.com/offlinesync/notekeeper/internal/config"
	"github.com/offlinesync/notekeeper/internal/logger"
	"github.com/offlinesync/notekeeper/internal/store"
	"github.com/offlinesync/notekeeper/internal/sync"
)

func main() {
	log := logger.NewLogger("notekeeper-reaper")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx := context.Background()

	db, err := store.NewConnectPostgres(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	clock := sync.NewClock()
	repositories := store.NewRepositories(db, clock, log)

	// Child types before parent types, so expired child tombstones are
	// removed and counted before their parents become eligible.
	reaper := sync.NewReaper(cfg.Sync.DeletedExpiryDays, log,
		repositories.NoteRepository,
		repositories.NotebookRepository,
	)

	counts, err := reaper.Sweep(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("reaper sweep failed")
	}

	if counts == nil {
		fmt.Println("tombstone expiry disabled, nothing to do")
		return
	}

	for _, count := range counts {
		fmt.Printf("%s: %d expired tombstones removed\n", count.Type, count.Removed)
	}
}
