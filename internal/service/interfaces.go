package service

import (
	"context"

	"github.com/offlinesync/notekeeper/internal/sync"
	"github.com/offlinesync/notekeeper/models"
)

// UserService exposes the read-only parent collection.
type UserService interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, username string) (models.User, error)
}

// NotebookService runs the sync protocol over the notebook collection.
// A filter with an empty username addresses the aggregate root collection;
// a non-empty username addresses the collection nested under that user.
//
// Archive additionally reports completeness: true means eviction or expiry
// may have discarded tombstones the window would otherwise have surfaced.
type NotebookService interface {
	List(ctx context.Context, f models.NotebookFilter, w models.Window) ([]models.Notebook, error)
	Archive(ctx context.Context, f models.NotebookFilter, w models.Window) ([]models.Notebook, bool, error)
	Get(ctx context.Context, f models.NotebookFilter, id int64) (models.Notebook, error)
	Create(ctx context.Context, f models.NotebookFilter, input models.NotebookInput) (models.Notebook, error)
	Update(ctx context.Context, f models.NotebookFilter, id int64, input models.NotebookInput, conds sync.WriteConditions) (models.Notebook, error)
	Delete(ctx context.Context, f models.NotebookFilter, id int64, conds sync.WriteConditions) error
}

// NoteService runs the sync protocol over the note collection nested under
// a notebook.
type NoteService interface {
	List(ctx context.Context, f models.NoteFilter, w models.Window) ([]models.Note, error)
	Archive(ctx context.Context, f models.NoteFilter, w models.Window) ([]models.Note, bool, error)
	Get(ctx context.Context, f models.NoteFilter, id int64) (models.Note, error)
	Create(ctx context.Context, f models.NoteFilter, input models.NoteInput) (models.Note, error)
	Update(ctx context.Context, f models.NoteFilter, id int64, input models.NoteInput, conds sync.WriteConditions) (models.Note, error)
	Delete(ctx context.Context, f models.NoteFilter, id int64, conds sync.WriteConditions) error
}

// ReaperService triggers tombstone expiry sweeps.
type ReaperService interface {
	Sweep(ctx context.Context) ([]sync.TypeCount, error)
}
