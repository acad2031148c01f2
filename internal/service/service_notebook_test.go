package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/offlinesync/notekeeper/internal/logger"
	"github.com/offlinesync/notekeeper/internal/store"
	"github.com/offlinesync/notekeeper/internal/sync"
	"github.com/offlinesync/notekeeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// Mocks
// ─────────────────────────────────────────────

type mockUserRepository struct {
	listUsersFn func(ctx context.Context) ([]models.User, error)
	getUserFn   func(ctx context.Context, username string) (models.User, error)
}

func (m *mockUserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	if m.listUsersFn != nil {
		return m.listUsersFn(ctx)
	}
	return nil, nil
}

func (m *mockUserRepository) GetUser(ctx context.Context, username string) (models.User, error) {
	if m.getUserFn != nil {
		return m.getUserFn(ctx, username)
	}
	return models.User{Username: username}, nil
}

type mockNotebookRepository struct {
	listFn            func(ctx context.Context, f models.NotebookFilter, w models.Window, deleted bool) ([]models.Notebook, error)
	getFn             func(ctx context.Context, f models.NotebookFilter, id int64) (models.Notebook, error)
	createFn          func(ctx context.Context, p store.CreateNotebookParams) (models.Notebook, error)
	updateFn          func(ctx context.Context, p store.UpdateNotebookParams) (models.Notebook, error)
	deleteFn          func(ctx context.Context, p store.DeleteNotebookParams) error
	evictionReachedFn func(ctx context.Context, f models.NotebookFilter, since *time.Time, deletedLimit int) (bool, error)
	purgeFn           func(ctx context.Context, olderThan time.Time) (int64, error)
}

func (m *mockNotebookRepository) List(ctx context.Context, f models.NotebookFilter, w models.Window, deleted bool) ([]models.Notebook, error) {
	if m.listFn != nil {
		return m.listFn(ctx, f, w, deleted)
	}
	return nil, nil
}

func (m *mockNotebookRepository) Get(ctx context.Context, f models.NotebookFilter, id int64) (models.Notebook, error) {
	if m.getFn != nil {
		return m.getFn(ctx, f, id)
	}
	return models.Notebook{}, nil
}

func (m *mockNotebookRepository) Create(ctx context.Context, p store.CreateNotebookParams) (models.Notebook, error) {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	return models.Notebook{}, nil
}

func (m *mockNotebookRepository) Update(ctx context.Context, p store.UpdateNotebookParams) (models.Notebook, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, p)
	}
	return models.Notebook{}, nil
}

func (m *mockNotebookRepository) Delete(ctx context.Context, p store.DeleteNotebookParams) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, p)
	}
	return nil
}

func (m *mockNotebookRepository) EvictionReached(ctx context.Context, f models.NotebookFilter, since *time.Time, deletedLimit int) (bool, error) {
	if m.evictionReachedFn != nil {
		return m.evictionReachedFn(ctx, f, since, deletedLimit)
	}
	return false, nil
}

func (m *mockNotebookRepository) EntityType() string { return models.TypeNotebook }

func (m *mockNotebookRepository) PurgeTombstones(ctx context.Context, olderThan time.Time) (int64, error) {
	if m.purgeFn != nil {
		return m.purgeFn(ctx, olderThan)
	}
	return 0, nil
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

var errRepository = errors.New("repository error")

func newTestNotebookService(notebooks *mockNotebookRepository, users *mockUserRepository, quotas sync.QuotaTable, retentionDays int) NotebookService {
	return NewNotebookService(notebooks, users, quotas, retentionDays, sync.NewClock(), logger.Nop())
}

func notebookQuotas(active, deleted int) sync.QuotaTable {
	return sync.QuotaTable{
		sync.QuotaKey{Parent: models.TypeUser, Child: models.TypeNotebook}: {Active: active, Deleted: deleted},
	}
}

// ─────────────────────────────────────────────
// List
// ─────────────────────────────────────────────

func TestNotebookService_List_ChecksParentOnNestedRoute(t *testing.T) {
	users := &mockUserRepository{
		getUserFn: func(_ context.Context, username string) (models.User, error) {
			assert.Equal(t, "alice", username)
			return models.User{}, sync.ErrNotFound
		},
	}
	svc := newTestNotebookService(&mockNotebookRepository{}, users, nil, 0)

	_, err := svc.List(context.Background(), models.NotebookFilter{Username: "alice"}, models.Window{})

	require.ErrorIs(t, err, sync.ErrNotFound)
}

func TestNotebookService_List_AggregateRootSkipsParentCheck(t *testing.T) {
	users := &mockUserRepository{
		getUserFn: func(_ context.Context, _ string) (models.User, error) {
			t.Fatal("parent check must not run on the aggregate root")
			return models.User{}, nil
		},
	}
	notebooks := &mockNotebookRepository{
		listFn: func(_ context.Context, f models.NotebookFilter, _ models.Window, deleted bool) ([]models.Notebook, error) {
			assert.Empty(t, f.Username)
			assert.False(t, deleted)
			return []models.Notebook{{ID: 1}}, nil
		},
	}
	svc := newTestNotebookService(notebooks, users, nil, 0)

	items, err := svc.List(context.Background(), models.NotebookFilter{}, models.Window{})

	require.NoError(t, err)
	assert.Len(t, items, 1)
}

// ─────────────────────────────────────────────
// Archive
// ─────────────────────────────────────────────

func TestNotebookService_Archive_ListsTombstones(t *testing.T) {
	notebooks := &mockNotebookRepository{
		listFn: func(_ context.Context, _ models.NotebookFilter, _ models.Window, deleted bool) ([]models.Notebook, error) {
			assert.True(t, deleted)
			return []models.Notebook{{ID: 7}}, nil
		},
	}
	svc := newTestNotebookService(notebooks, &mockUserRepository{}, nil, 0)

	items, partial, err := svc.Archive(context.Background(), models.NotebookFilter{Username: "alice"}, models.Window{})

	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.False(t, partial)
}

func TestNotebookService_Archive_PartialWhenExpiryConfiguredWithoutSince(t *testing.T) {
	notebooks := &mockNotebookRepository{
		evictionReachedFn: func(_ context.Context, _ models.NotebookFilter, _ *time.Time, _ int) (bool, error) {
			t.Fatal("expiry already made the response partial, eviction check is redundant")
			return false, nil
		},
	}
	svc := newTestNotebookService(notebooks, &mockUserRepository{}, nil, 30)

	_, partial, err := svc.Archive(context.Background(), models.NotebookFilter{Username: "alice"}, models.Window{})

	require.NoError(t, err)
	assert.True(t, partial)
}

func TestNotebookService_Archive_PartialWhenEvictionReached(t *testing.T) {
	since := time.Now().Add(-time.Hour)
	notebooks := &mockNotebookRepository{
		evictionReachedFn: func(_ context.Context, _ models.NotebookFilter, gotSince *time.Time, deletedLimit int) (bool, error) {
			require.NotNil(t, gotSince)
			assert.True(t, since.Equal(*gotSince))
			assert.Equal(t, 5, deletedLimit)
			return true, nil
		},
	}
	svc := newTestNotebookService(notebooks, &mockUserRepository{}, notebookQuotas(0, 5), 30)

	_, partial, err := svc.Archive(context.Background(), models.NotebookFilter{Username: "alice"}, models.Window{Since: &since})

	require.NoError(t, err)
	assert.True(t, partial)
}

func TestNotebookService_Archive_RepositoryError(t *testing.T) {
	notebooks := &mockNotebookRepository{
		listFn: func(_ context.Context, _ models.NotebookFilter, _ models.Window, _ bool) ([]models.Notebook, error) {
			return nil, errRepository
		},
	}
	svc := newTestNotebookService(notebooks, &mockUserRepository{}, nil, 0)

	_, _, err := svc.Archive(context.Background(), models.NotebookFilter{Username: "alice"}, models.Window{})

	require.ErrorIs(t, err, errRepository)
}

// ─────────────────────────────────────────────
// Create
// ─────────────────────────────────────────────

func TestNotebookService_Create_OwnerFromPath(t *testing.T) {
	notebooks := &mockNotebookRepository{
		createFn: func(_ context.Context, p store.CreateNotebookParams) (models.Notebook, error) {
			assert.Equal(t, "alice", p.Username)
			assert.Equal(t, "todo", p.Title)
			assert.Equal(t, 100, p.ActiveLimit)
			return models.Notebook{ID: 1, User: p.Username, Title: p.Title}, nil
		},
	}
	svc := newTestNotebookService(notebooks, &mockUserRepository{}, notebookQuotas(100, 0), 0)

	nb, err := svc.Create(context.Background(), models.NotebookFilter{Username: "alice"}, models.NotebookInput{Title: "todo"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), nb.ID)
}

func TestNotebookService_Create_OwnerFromBodyOnAggregateRoot(t *testing.T) {
	notebooks := &mockNotebookRepository{
		createFn: func(_ context.Context, p store.CreateNotebookParams) (models.Notebook, error) {
			assert.Equal(t, "bob", p.Username)
			return models.Notebook{}, nil
		},
	}
	svc := newTestNotebookService(notebooks, &mockUserRepository{}, nil, 0)

	_, err := svc.Create(context.Background(), models.NotebookFilter{}, models.NotebookInput{User: "bob", Title: "todo"})

	require.NoError(t, err)
}

func TestNotebookService_Create_MissingOwner(t *testing.T) {
	svc := newTestNotebookService(&mockNotebookRepository{}, &mockUserRepository{}, nil, 0)

	_, err := svc.Create(context.Background(), models.NotebookFilter{}, models.NotebookInput{Title: "todo"})

	require.ErrorIs(t, err, sync.ErrValidation)
}

func TestNotebookService_Create_MissingTitle(t *testing.T) {
	svc := newTestNotebookService(&mockNotebookRepository{}, &mockUserRepository{}, nil, 0)

	_, err := svc.Create(context.Background(), models.NotebookFilter{Username: "alice"}, models.NotebookInput{})

	require.ErrorIs(t, err, sync.ErrValidation)
}

// ─────────────────────────────────────────────
// Update
// ─────────────────────────────────────────────

func TestNotebookService_Update_NestedRouteIgnoresBodyOwner(t *testing.T) {
	notebooks := &mockNotebookRepository{
		updateFn: func(_ context.Context, p store.UpdateNotebookParams) (models.Notebook, error) {
			assert.Empty(t, p.NewOwner)
			assert.Equal(t, "alice", p.Filter.Username)
			return models.Notebook{}, nil
		},
	}
	svc := newTestNotebookService(notebooks, &mockUserRepository{}, nil, 0)

	_, err := svc.Update(context.Background(), models.NotebookFilter{Username: "alice"}, 1,
		models.NotebookInput{User: "bob", Title: "todo"}, sync.WriteConditions{})

	require.NoError(t, err)
}

func TestNotebookService_Update_AggregateRouteReparents(t *testing.T) {
	at := time.Now().Truncate(sync.Granularity)
	notebooks := &mockNotebookRepository{
		updateFn: func(_ context.Context, p store.UpdateNotebookParams) (models.Notebook, error) {
			assert.Equal(t, "bob", p.NewOwner)
			assert.Equal(t, 100, p.ActiveLimit)
			require.NotNil(t, p.Conditions.At)
			assert.True(t, at.Equal(*p.Conditions.At))
			return models.Notebook{}, nil
		},
	}
	svc := newTestNotebookService(notebooks, &mockUserRepository{}, notebookQuotas(100, 0), 0)

	_, err := svc.Update(context.Background(), models.NotebookFilter{}, 1,
		models.NotebookInput{User: "bob", Title: "todo"}, sync.WriteConditions{At: &at})

	require.NoError(t, err)
}

func TestNotebookService_Update_AggregateRouteRequiresOwner(t *testing.T) {
	svc := newTestNotebookService(&mockNotebookRepository{}, &mockUserRepository{}, nil, 0)

	_, err := svc.Update(context.Background(), models.NotebookFilter{}, 1,
		models.NotebookInput{Title: "todo"}, sync.WriteConditions{})

	require.ErrorIs(t, err, sync.ErrValidation)
}

// ─────────────────────────────────────────────
// Delete
// ─────────────────────────────────────────────

func TestNotebookService_Delete_PassesDeletedLimit(t *testing.T) {
	notebooks := &mockNotebookRepository{
		deleteFn: func(_ context.Context, p store.DeleteNotebookParams) error {
			assert.Equal(t, int64(9), p.ID)
			assert.Equal(t, 5, p.DeletedLimit)
			return nil
		},
	}
	svc := newTestNotebookService(notebooks, &mockUserRepository{}, notebookQuotas(0, 5), 0)

	err := svc.Delete(context.Background(), models.NotebookFilter{Username: "alice"}, 9, sync.WriteConditions{})

	require.NoError(t, err)
}

func TestNotebookService_Delete_ConflictPropagates(t *testing.T) {
	notebooks := &mockNotebookRepository{
		deleteFn: func(_ context.Context, _ store.DeleteNotebookParams) error {
			return sync.ErrConflict
		},
	}
	svc := newTestNotebookService(notebooks, &mockUserRepository{}, nil, 0)

	err := svc.Delete(context.Background(), models.NotebookFilter{Username: "alice"}, 9, sync.WriteConditions{})

	require.ErrorIs(t, err, sync.ErrConflict)
}
