package service

import (
	"context"
	"fmt"

	"github.com/offlinesync/notekeeper/internal/logger"
	"github.com/offlinesync/notekeeper/internal/store"
	"github.com/offlinesync/notekeeper/internal/sync"
	"github.com/offlinesync/notekeeper/models"
)

type noteService struct {
	notes         store.NoteRepository
	quota         sync.Quota
	retentionDays int
	clock         *sync.Clock
	logger        *logger.Logger
}

// NewNoteService creates the note service. Notes live under a notebook whose
// own deletion state gates read access; the user path segment is matched
// through the notebook's owner without touching the user row.
func NewNoteService(notes store.NoteRepository, quotas sync.QuotaTable, retentionDays int, clock *sync.Clock, logger *logger.Logger) NoteService {
	return &noteService{
		notes:         notes,
		quota:         quotas.Get(models.TypeNotebook, models.TypeNote),
		retentionDays: retentionDays,
		clock:         clock,
		logger:        logger,
	}
}

func (s *noteService) List(ctx context.Context, f models.NoteFilter, w models.Window) ([]models.Note, error) {
	if err := s.notes.NotebookExists(ctx, f); err != nil {
		return nil, err
	}

	return s.notes.List(ctx, f, w, false)
}

func (s *noteService) Archive(ctx context.Context, f models.NoteFilter, w models.Window) ([]models.Note, bool, error) {
	if err := s.notes.NotebookExists(ctx, f); err != nil {
		return nil, false, err
	}

	items, err := s.notes.List(ctx, f, w, true)
	if err != nil {
		return nil, false, err
	}

	partial := sync.ArchiveExpired(w, s.retentionDays, s.clock.Now())
	if !partial {
		partial, err = s.notes.EvictionReached(ctx, f, w.Since, s.quota.Deleted)
		if err != nil {
			return nil, false, err
		}
	}

	return items, partial, nil
}

func (s *noteService) Get(ctx context.Context, f models.NoteFilter, id int64) (models.Note, error) {
	return s.notes.Get(ctx, f, id)
}

func (s *noteService) Create(ctx context.Context, f models.NoteFilter, input models.NoteInput) (models.Note, error) {
	if input.Title == "" {
		return models.Note{}, fmt.Errorf("%w: title: this field is required", sync.ErrValidation)
	}

	return s.notes.Create(ctx, store.CreateNoteParams{
		Filter:      f,
		Title:       input.Title,
		Text:        input.Text,
		ActiveLimit: s.quota.Active,
	})
}

func (s *noteService) Update(ctx context.Context, f models.NoteFilter, id int64, input models.NoteInput, conds sync.WriteConditions) (models.Note, error) {
	if input.Title == "" {
		return models.Note{}, fmt.Errorf("%w: title: this field is required", sync.ErrValidation)
	}

	return s.notes.Update(ctx, store.UpdateNoteParams{
		Filter:     f,
		ID:         id,
		Title:      input.Title,
		Text:       input.Text,
		Conditions: conds,
	})
}

func (s *noteService) Delete(ctx context.Context, f models.NoteFilter, id int64, conds sync.WriteConditions) error {
	return s.notes.Delete(ctx, store.DeleteNoteParams{
		Filter:       f,
		ID:           id,
		Conditions:   conds,
		DeletedLimit: s.quota.Deleted,
	})
}
