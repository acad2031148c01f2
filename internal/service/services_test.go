package service

import (
	"context"
	"testing"
	"time"

	"github.com/offlinesync/notekeeper/internal/logger"
	"github.com/offlinesync/notekeeper/internal/store"
	"github.com/offlinesync/notekeeper/internal/sync"
	"github.com/offlinesync/notekeeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A sweep must remove expired note tombstones before their parent notebooks
// become eligible: a note purged through the notebook's foreign key would
// never show up in the note count.
func TestNewServices_ReaperPurgesNotesBeforeNotebooks(t *testing.T) {
	var order []string

	notebooks := &mockNotebookRepository{
		purgeFn: func(_ context.Context, _ time.Time) (int64, error) {
			order = append(order, models.TypeNotebook)
			return 1, nil
		},
	}
	notes := &mockNoteRepository{
		purgeFn: func(_ context.Context, _ time.Time) (int64, error) {
			order = append(order, models.TypeNote)
			return 4, nil
		},
	}

	repos := &store.Repositories{
		UserRepository:     &mockUserRepository{},
		NotebookRepository: notebooks,
		NoteRepository:     notes,
	}
	services := NewServices(repos, sync.QuotaTable{}, 7, sync.NewClock(), logger.Nop())

	counts, err := services.Reaper.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{models.TypeNote, models.TypeNotebook}, order)
	assert.Equal(t, []sync.TypeCount{
		{Type: models.TypeNote, Removed: 4},
		{Type: models.TypeNotebook, Removed: 1},
	}, counts)
}
