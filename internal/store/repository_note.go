package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/offlinesync/notekeeper/internal/logger"
	"github.com/offlinesync/notekeeper/internal/sync"
	"github.com/offlinesync/notekeeper/models"
)

// noteRepository is the PostgreSQL-backed implementation of
// [NoteRepository]. The parent notebook is itself tracked, so read paths
// additionally filter on the notebook's deletion state while write paths
// deliberately do not.
type noteRepository struct {
	*DB
	clock  *sync.Clock
	logger *logger.Logger
}

// NewNoteRepository constructs a [NoteRepository] backed by the provided
// database connection, timestamp clock and logger.
func NewNoteRepository(db *DB, clock *sync.Clock, logger *logger.Logger) NoteRepository {
	return &noteRepository{
		DB:     db,
		clock:  clock,
		logger: logger,
	}
}

func scanNote(row rowScanner) (models.Note, error) {
	var note models.Note
	err := row.Scan(
		&note.ID,
		&note.NotebookID,
		&note.Title,
		&note.Text,
		&note.Created,
		&note.Updated,
		&note.Deleted,
	)
	return note, err
}

func (r *noteRepository) List(ctx context.Context, f models.NoteFilter, w models.Window, deleted bool) ([]models.Note, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildNoteListQuery(f, w, deleted)
	if err != nil {
		log.Err(err).
			Str("func", "noteRepository.List").
			Msg("failed to create query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "noteRepository.List").
			Int64("notebook_id", f.NotebookID).
			Bool("deleted", deleted).
			Msg("failed to execute query for listing notes")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	notes := make([]models.Note, 0, 50)

	for rows.Next() {
		note, scanErr := scanNote(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "noteRepository.List").
				Msg("failed to scan note row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		notes = append(notes, note)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "noteRepository.List").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return notes, nil
}

func (r *noteRepository) Get(ctx context.Context, f models.NoteFilter, id int64) (models.Note, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildNoteGetQuery(f, id)
	if err != nil {
		log.Err(err).
			Str("func", "noteRepository.Get").
			Msg("failed to create query")
		return models.Note{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	note, err := scanNote(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Note{}, fmt.Errorf("%w: note %d", sync.ErrNotFound, id)
		}

		log.Err(err).
			Str("func", "noteRepository.Get").
			Int64("note_id", id).
			Msg("failed to execute query for getting note")
		return models.Note{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return note, nil
}

func (r *noteRepository) NotebookExists(ctx context.Context, f models.NoteFilter) error {
	log := logger.FromContext(ctx)

	query, args, err := buildNotebookParentQuery(f, false, true)
	if err != nil {
		log.Err(err).
			Str("func", "noteRepository.NotebookExists").
			Msg("failed to create query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var notebookID int64
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&notebookID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: notebook %d", sync.ErrNotFound, f.NotebookID)
		}

		log.Err(err).
			Str("func", "noteRepository.NotebookExists").
			Int64("notebook_id", f.NotebookID).
			Msg("failed to execute parent existence query")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// lockParentNotebook locks the notebook row addressed by the filter for the
// remainder of the transaction, serializing concurrent mutations of that
// notebook's note set. Write paths skip the deletion-state filter.
func (r *noteRepository) lockParentNotebook(ctx context.Context, tx *sql.Tx, f models.NoteFilter) (int64, error) {
	query, args, err := buildNotebookParentQuery(f, true, false)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var notebookID int64
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&notebookID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: notebook %d", sync.ErrNotFound, f.NotebookID)
		}
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return notebookID, nil
}

func (r *noteRepository) checkActiveLimit(ctx context.Context, tx *sql.Tx, notebookID int64, limit int) error {
	if limit <= 0 {
		return nil
	}

	var count int
	if err := tx.QueryRowContext(ctx, countActiveNotes, notebookID).Scan(&count); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if count >= limit {
		return sync.LimitExceededError(limit, models.TypeNote, models.TypeNotebook)
	}

	return nil
}

func (r *noteRepository) Create(ctx context.Context, p CreateNoteParams) (models.Note, error) {
	log := logger.FromContext(ctx)

	var created models.Note

	err := r.DB.InTx(ctx, func(tx *sql.Tx) error {
		notebookID, err := r.lockParentNotebook(ctx, tx, p.Filter)
		if err != nil {
			return err
		}

		if err := r.checkActiveLimit(ctx, tx, notebookID, p.ActiveLimit); err != nil {
			return err
		}

		now := r.clock.Now()

		var id int64
		if err := tx.QueryRowContext(ctx, insertNote, notebookID, p.Title, p.Text, now).Scan(&id); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		created = models.Note{
			ID:         id,
			NotebookID: notebookID,
			Title:      p.Title,
			Text:       p.Text,
			Tracked: models.Tracked{
				Created: now,
				Updated: now,
			},
		}

		return nil
	})
	if err != nil {
		log.Err(err).
			Str("func", "noteRepository.Create").
			Int64("notebook_id", p.Filter.NotebookID).
			Msg("failed to create note")
		return models.Note{}, err
	}

	return created, nil
}

func (r *noteRepository) lockNote(ctx context.Context, tx *sql.Tx, f models.NoteFilter, id int64) (models.Note, error) {
	query, args, err := buildNoteLockQuery(f, id)
	if err != nil {
		return models.Note{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	note, err := scanNote(tx.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Note{}, fmt.Errorf("%w: note %d", sync.ErrNotFound, id)
		}
		return models.Note{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return note, nil
}

func (r *noteRepository) Update(ctx context.Context, p UpdateNoteParams) (models.Note, error) {
	log := logger.FromContext(ctx)

	var updated models.Note

	err := r.DB.InTx(ctx, func(tx *sql.Tx) error {
		note, err := r.lockNote(ctx, tx, p.Filter, p.ID)
		if err != nil {
			return err
		}

		if err := p.Conditions.Check(note.Updated); err != nil {
			return err
		}

		next, err := r.clock.NextUpdated(ctx, note.Updated)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, updateNote, p.Title, p.Text, next, note.ID); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		updated = note
		updated.Title = p.Title
		updated.Text = p.Text
		updated.Updated = next

		return nil
	})
	if err != nil {
		log.Err(err).
			Str("func", "noteRepository.Update").
			Int64("note_id", p.ID).
			Msg("failed to update note")
		return models.Note{}, err
	}

	return updated, nil
}

func (r *noteRepository) Delete(ctx context.Context, p DeleteNoteParams) error {
	log := logger.FromContext(ctx)

	err := r.DB.InTx(ctx, func(tx *sql.Tx) error {
		note, err := r.lockNote(ctx, tx, p.Filter, p.ID)
		if err != nil {
			return err
		}

		if err := p.Conditions.Check(note.Updated); err != nil {
			return err
		}

		next, err := r.clock.NextUpdated(ctx, note.Updated)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, tombstoneNote, next, note.ID); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		if p.DeletedLimit > 0 {
			query, args, buildErr := buildNoteEvictionQuery(note.NotebookID, p.DeletedLimit)
			if buildErr != nil {
				return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, buildErr)
			}

			if _, execErr := tx.ExecContext(ctx, query, args...); execErr != nil {
				return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
			}
		}

		return nil
	})
	if err != nil {
		log.Err(err).
			Str("func", "noteRepository.Delete").
			Int64("note_id", p.ID).
			Msg("failed to delete note")
		return err
	}

	return nil
}

func (r *noteRepository) EvictionReached(ctx context.Context, f models.NoteFilter, since *time.Time, deletedLimit int) (bool, error) {
	if deletedLimit <= 0 {
		return false, nil
	}

	log := logger.FromContext(ctx)

	query, args, err := buildNoteEvictedGroupQuery(f, since, deletedLimit)
	if err != nil {
		log.Err(err).
			Str("func", "noteRepository.EvictionReached").
			Msg("failed to create query")
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var notebookID int64
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&notebookID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		log.Err(err).
			Str("func", "noteRepository.EvictionReached").
			Msg("failed to execute eviction group query")
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return true, nil
}

// EntityType implements [sync.Purger].
func (r *noteRepository) EntityType() string {
	return models.TypeNote
}

// PurgeTombstones implements [sync.Purger].
func (r *noteRepository) PurgeTombstones(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, purgeNoteTombstones, olderThan)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return res.RowsAffected()
}
