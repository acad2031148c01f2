package service

import (
	"context"
	"fmt"

	"github.com/offlinesync/notekeeper/internal/logger"
	"github.com/offlinesync/notekeeper/internal/store"
	"github.com/offlinesync/notekeeper/internal/sync"
	"github.com/offlinesync/notekeeper/models"
)

type notebookService struct {
	notebooks     store.NotebookRepository
	users         store.UserRepository
	quota         sync.Quota
	retentionDays int
	clock         *sync.Clock
	logger        *logger.Logger
}

// NewNotebookService creates the notebook service. The quota for the
// user/notebook pair is resolved once at construction; the table is
// read-only after startup.
func NewNotebookService(notebooks store.NotebookRepository, users store.UserRepository, quotas sync.QuotaTable, retentionDays int, clock *sync.Clock, logger *logger.Logger) NotebookService {
	return &notebookService{
		notebooks:     notebooks,
		users:         users,
		quota:         quotas.Get(models.TypeUser, models.TypeNotebook),
		retentionDays: retentionDays,
		clock:         clock,
		logger:        logger,
	}
}

// checkParent verifies that the user addressed by the path exists. Listing
// requests surface NotFound for a missing parent instead of an empty
// collection; the aggregate root has no path parent to verify.
func (s *notebookService) checkParent(ctx context.Context, f models.NotebookFilter) error {
	if f.Username == "" {
		return nil
	}

	if _, err := s.users.GetUser(ctx, f.Username); err != nil {
		return err
	}

	return nil
}

func (s *notebookService) List(ctx context.Context, f models.NotebookFilter, w models.Window) ([]models.Notebook, error) {
	if err := s.checkParent(ctx, f); err != nil {
		return nil, err
	}

	return s.notebooks.List(ctx, f, w, false)
}

// Archive lists tombstoned notebooks inside the window. The second return
// value reports partial results: tombstone eviction or expiry may have
// removed rows the window would otherwise have surfaced.
func (s *notebookService) Archive(ctx context.Context, f models.NotebookFilter, w models.Window) ([]models.Notebook, bool, error) {
	if err := s.checkParent(ctx, f); err != nil {
		return nil, false, err
	}

	items, err := s.notebooks.List(ctx, f, w, true)
	if err != nil {
		return nil, false, err
	}

	partial := sync.ArchiveExpired(w, s.retentionDays, s.clock.Now())
	if !partial {
		partial, err = s.notebooks.EvictionReached(ctx, f, w.Since, s.quota.Deleted)
		if err != nil {
			return nil, false, err
		}
	}

	return items, partial, nil
}

func (s *notebookService) Get(ctx context.Context, f models.NotebookFilter, id int64) (models.Notebook, error) {
	return s.notebooks.Get(ctx, f, id)
}

func (s *notebookService) Create(ctx context.Context, f models.NotebookFilter, input models.NotebookInput) (models.Notebook, error) {
	if input.Title == "" {
		return models.Notebook{}, fmt.Errorf("%w: title: this field is required", sync.ErrValidation)
	}

	// On nested routes the owner comes from the path; on the aggregate root
	// it travels in the body.
	owner := f.Username
	if owner == "" {
		owner = input.User
	}
	if owner == "" {
		return models.Notebook{}, fmt.Errorf("%w: user: this field is required", sync.ErrValidation)
	}

	return s.notebooks.Create(ctx, store.CreateNotebookParams{
		Username:    owner,
		Title:       input.Title,
		ActiveLimit: s.quota.Active,
	})
}

func (s *notebookService) Update(ctx context.Context, f models.NotebookFilter, id int64, input models.NotebookInput, conds sync.WriteConditions) (models.Notebook, error) {
	if input.Title == "" {
		return models.Notebook{}, fmt.Errorf("%w: title: this field is required", sync.ErrValidation)
	}

	// Reparenting is an aggregate-root affair: on nested routes the owner is
	// fixed by the path and the body's user reference is ignored.
	var newOwner string
	if f.Username == "" {
		if input.User == "" {
			return models.Notebook{}, fmt.Errorf("%w: user: this field is required", sync.ErrValidation)
		}
		newOwner = input.User
	}

	return s.notebooks.Update(ctx, store.UpdateNotebookParams{
		Filter:      f,
		ID:          id,
		Title:       input.Title,
		NewOwner:    newOwner,
		Conditions:  conds,
		ActiveLimit: s.quota.Active,
	})
}

func (s *notebookService) Delete(ctx context.Context, f models.NotebookFilter, id int64, conds sync.WriteConditions) error {
	return s.notebooks.Delete(ctx, store.DeleteNotebookParams{
		Filter:       f,
		ID:           id,
		Conditions:   conds,
		DeletedLimit: s.quota.Deleted,
	})
}
