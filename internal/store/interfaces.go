package store

import (
	"context"
	"time"

	"github.com/offlinesync/notekeeper/internal/sync"
	"github.com/offlinesync/notekeeper/models"
)

// UserRepository reads the plain (untracked) parent collection.
type UserRepository interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, username string) (models.User, error)
}

// CreateNotebookParams carries one notebook insertion through the pipeline:
// the resolved owner (from the path on nested routes, from the body on the
// aggregate root), the payload, and the active-child limit to enforce under
// the owner's row lock. ActiveLimit zero means unlimited.
type CreateNotebookParams struct {
	Username    string
	Title       string
	ActiveLimit int
}

// UpdateNotebookParams carries one notebook mutation. NewOwner is set only
// on aggregate routes, where the owner reference travels in the body; when
// it names a different user than the current owner, the notebook is
// reparented and the new owner's quota is re-checked under its lock.
type UpdateNotebookParams struct {
	Filter      models.NotebookFilter
	ID          int64
	Title       string
	NewOwner    string
	Conditions  sync.WriteConditions
	ActiveLimit int
}

// DeleteNotebookParams carries one notebook soft-delete. DeletedLimit is
// the tombstone cap of the owner; excess tombstones beyond it are evicted
// after the row is tombstoned. Zero means unlimited retention.
type DeleteNotebookParams struct {
	Filter       models.NotebookFilter
	ID           int64
	Conditions   sync.WriteConditions
	DeletedLimit int
}

// NotebookRepository executes notebook operations against the store. Every
// mutating method runs its full stage pipeline (resolve and lock parent,
// lock child, check conditional, check quota, evict) inside one
// transaction.
type NotebookRepository interface {
	List(ctx context.Context, f models.NotebookFilter, w models.Window, deleted bool) ([]models.Notebook, error)
	Get(ctx context.Context, f models.NotebookFilter, id int64) (models.Notebook, error)
	Create(ctx context.Context, p CreateNotebookParams) (models.Notebook, error)
	Update(ctx context.Context, p UpdateNotebookParams) (models.Notebook, error)
	Delete(ctx context.Context, p DeleteNotebookParams) error

	// EvictionReached reports whether tombstone eviction may have removed
	// rows a client's since would otherwise have surfaced, per owner group
	// inside the filter.
	EvictionReached(ctx context.Context, f models.NotebookFilter, since *time.Time, deletedLimit int) (bool, error)

	sync.Purger
}

// CreateNoteParams carries one note insertion. The parent notebook is
// addressed by the filter and locked for the duration of the transaction.
type CreateNoteParams struct {
	Filter      models.NoteFilter
	Title       string
	Text        string
	ActiveLimit int
}

// UpdateNoteParams carries one note mutation.
type UpdateNoteParams struct {
	Filter     models.NoteFilter
	ID         int64
	Title      string
	Text       string
	Conditions sync.WriteConditions
}

// DeleteNoteParams carries one note soft-delete.
type DeleteNoteParams struct {
	Filter       models.NoteFilter
	ID           int64
	Conditions   sync.WriteConditions
	DeletedLimit int
}

// NoteRepository executes note operations against the store. Notes are
// children of a tracked parent: read paths apply the notebook's deletion
// state, write paths do not.
type NoteRepository interface {
	List(ctx context.Context, f models.NoteFilter, w models.Window, deleted bool) ([]models.Note, error)
	Get(ctx context.Context, f models.NoteFilter, id int64) (models.Note, error)
	Create(ctx context.Context, p CreateNoteParams) (models.Note, error)
	Update(ctx context.Context, p UpdateNoteParams) (models.Note, error)
	Delete(ctx context.Context, p DeleteNoteParams) error

	// NotebookExists performs the unlocked existence check of the path
	// parent used by listing requests: NotFound when the notebook is absent,
	// tombstoned, or owned by a different user.
	NotebookExists(ctx context.Context, f models.NoteFilter) error

	EvictionReached(ctx context.Context, f models.NoteFilter, since *time.Time, deletedLimit int) (bool, error)

	sync.Purger
}
