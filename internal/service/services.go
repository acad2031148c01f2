package service

import (
	"github.com/offlinesync/notekeeper/internal/logger"
	"github.com/offlinesync/notekeeper/internal/store"
	"github.com/offlinesync/notekeeper/internal/sync"
)

// Services aggregates every service implementation behind one value that
// the transport layer depends on.
type Services struct {
	UserService     UserService
	NotebookService NotebookService
	NoteService     NoteService
	Reaper          *sync.Reaper
}

// NewServices wires the repositories, the quota table and the tombstone
// retention period into the per-resource services and the reaper.
func NewServices(repos *store.Repositories, quotas sync.QuotaTable, retentionDays int, clock *sync.Clock, logger *logger.Logger) *Services {
	return &Services{
		UserService:     NewUserService(repos.UserRepository, logger),
		NotebookService: NewNotebookService(repos.NotebookRepository, repos.UserRepository, quotas, retentionDays, clock, logger),
		NoteService:     NewNoteService(repos.NoteRepository, quotas, retentionDays, clock, logger),
		// Notes are purged before notebooks: expired note tombstones must be
		// removed and counted under their own type before their parent
		// notebooks become eligible for purging.
		Reaper: sync.NewReaper(retentionDays, logger,
			repos.NoteRepository,
			repos.NotebookRepository,
		),
	}
}
