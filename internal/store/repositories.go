package store

import (
	"github.com/offlinesync/notekeeper/internal/logger"
	"github.com/offlinesync/notekeeper/internal/sync"
)

// Repositories aggregates all repository implementations over one shared
// database connection.
type Repositories struct {
	UserRepository     UserRepository
	NotebookRepository NotebookRepository
	NoteRepository     NoteRepository
}

// NewRepositories constructs every repository over the given connection.
// The clock is shared so all tracked types draw updated timestamps from the
// same source.
func NewRepositories(db *DB, clock *sync.Clock, logger *logger.Logger) *Repositories {
	return &Repositories{
		UserRepository:     NewUserRepository(db, logger),
		NotebookRepository: NewNotebookRepository(db, clock, logger),
		NoteRepository:     NewNoteRepository(db, clock, logger),
	}
}
