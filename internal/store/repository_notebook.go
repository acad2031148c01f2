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

// notebookRepository is the PostgreSQL-backed implementation of
// [NotebookRepository]. Mutating methods run the full stage pipeline —
// resolve and lock the parent, lock the child, check the conditional
// timestamp, check quotas, evict — inside one transaction, so a failed
// request leaves no partial state and concurrent writers against one owner
// are serialized by the owner's row lock.
type notebookRepository struct {
	*DB
	clock  *sync.Clock
	logger *logger.Logger
}

// NewNotebookRepository constructs a [NotebookRepository] backed by the
// provided database connection, timestamp clock and logger.
func NewNotebookRepository(db *DB, clock *sync.Clock, logger *logger.Logger) NotebookRepository {
	return &notebookRepository{
		DB:     db,
		clock:  clock,
		logger: logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotebook(row rowScanner) (models.Notebook, error) {
	var nb models.Notebook
	err := row.Scan(
		&nb.ID,
		&nb.UserID,
		&nb.User,
		&nb.Title,
		&nb.Created,
		&nb.Updated,
		&nb.Deleted,
	)
	return nb, err
}

func (r *notebookRepository) List(ctx context.Context, f models.NotebookFilter, w models.Window, deleted bool) ([]models.Notebook, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildNotebookListQuery(f, w, deleted)
	if err != nil {
		log.Err(err).
			Str("func", "notebookRepository.List").
			Msg("failed to create query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "notebookRepository.List").
			Str("username", f.Username).
			Bool("deleted", deleted).
			Msg("failed to execute query for listing notebooks")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	notebooks := make([]models.Notebook, 0, 50)

	for rows.Next() {
		nb, scanErr := scanNotebook(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "notebookRepository.List").
				Msg("failed to scan notebook row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		notebooks = append(notebooks, nb)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "notebookRepository.List").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return notebooks, nil
}

func (r *notebookRepository) Get(ctx context.Context, f models.NotebookFilter, id int64) (models.Notebook, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildNotebookGetQuery(f, id)
	if err != nil {
		log.Err(err).
			Str("func", "notebookRepository.Get").
			Msg("failed to create query")
		return models.Notebook{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	nb, err := scanNotebook(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Notebook{}, fmt.Errorf("%w: notebook %d", sync.ErrNotFound, id)
		}

		log.Err(err).
			Str("func", "notebookRepository.Get").
			Int64("notebook_id", id).
			Msg("failed to execute query for getting notebook")
		return models.Notebook{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nb, nil
}

// lockOwner locks the user row identified by username for the remainder of
// the transaction, serializing concurrent mutations of that user's
// notebook set.
func (r *notebookRepository) lockOwner(ctx context.Context, tx *sql.Tx, username string) (models.User, error) {
	var owner models.User

	err := tx.QueryRowContext(ctx, lockUserByUsername, username).
		Scan(&owner.ID, &owner.Username, &owner.Created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("%w: user %s", sync.ErrNotFound, username)
		}
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return owner, nil
}

// checkActiveLimit enforces the owner's active-child quota. Must run under
// the owner's row lock so two concurrent creates cannot both observe
// "under quota".
func (r *notebookRepository) checkActiveLimit(ctx context.Context, tx *sql.Tx, ownerID int64, limit int) error {
	if limit <= 0 {
		return nil
	}

	var count int
	if err := tx.QueryRowContext(ctx, countActiveNotebooks, ownerID).Scan(&count); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if count >= limit {
		return sync.LimitExceededError(limit, models.TypeNotebook, models.TypeUser)
	}

	return nil
}

func (r *notebookRepository) Create(ctx context.Context, p CreateNotebookParams) (models.Notebook, error) {
	log := logger.FromContext(ctx)

	var created models.Notebook

	err := r.DB.InTx(ctx, func(tx *sql.Tx) error {
		owner, err := r.lockOwner(ctx, tx, p.Username)
		if err != nil {
			return err
		}

		if err := r.checkActiveLimit(ctx, tx, owner.ID, p.ActiveLimit); err != nil {
			return err
		}

		now := r.clock.Now()

		var id int64
		if err := tx.QueryRowContext(ctx, insertNotebook, owner.ID, p.Title, now).Scan(&id); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		created = models.Notebook{
			ID:     id,
			UserID: owner.ID,
			User:   owner.Username,
			Title:  p.Title,
			Tracked: models.Tracked{
				Created: now,
				Updated: now,
			},
		}

		return nil
	})
	if err != nil {
		log.Err(err).
			Str("func", "notebookRepository.Create").
			Str("username", p.Username).
			Msg("failed to create notebook")
		return models.Notebook{}, err
	}

	return created, nil
}

// lockNotebook locks the live notebook row addressed by the filter and id,
// making the conditional-timestamp check atomic with the read that produced
// the comparison value.
func (r *notebookRepository) lockNotebook(ctx context.Context, tx *sql.Tx, f models.NotebookFilter, id int64) (models.Notebook, error) {
	query, args, err := buildNotebookLockQuery(f, id)
	if err != nil {
		return models.Notebook{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	nb, err := scanNotebook(tx.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Notebook{}, fmt.Errorf("%w: notebook %d", sync.ErrNotFound, id)
		}
		return models.Notebook{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nb, nil
}

func (r *notebookRepository) Update(ctx context.Context, p UpdateNotebookParams) (models.Notebook, error) {
	log := logger.FromContext(ctx)

	var updated models.Notebook

	err := r.DB.InTx(ctx, func(tx *sql.Tx) error {
		nb, err := r.lockNotebook(ctx, tx, p.Filter, p.ID)
		if err != nil {
			return err
		}

		if err := p.Conditions.Check(nb.Updated); err != nil {
			return err
		}

		ownerID, ownerName := nb.UserID, nb.User

		if p.NewOwner != "" {
			// Aggregate route: the parent reference travels in the body and
			// is locked at write time, not resolved from the path.
			owner, lockErr := r.lockOwner(ctx, tx, p.NewOwner)
			if lockErr != nil {
				return lockErr
			}

			if owner.ID != nb.UserID {
				if limitErr := r.checkActiveLimit(ctx, tx, owner.ID, p.ActiveLimit); limitErr != nil {
					return limitErr
				}
			}

			ownerID, ownerName = owner.ID, owner.Username
		}

		next, err := r.clock.NextUpdated(ctx, nb.Updated)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, updateNotebook, ownerID, p.Title, next, nb.ID); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		updated = nb
		updated.UserID = ownerID
		updated.User = ownerName
		updated.Title = p.Title
		updated.Updated = next

		return nil
	})
	if err != nil {
		log.Err(err).
			Str("func", "notebookRepository.Update").
			Int64("notebook_id", p.ID).
			Msg("failed to update notebook")
		return models.Notebook{}, err
	}

	return updated, nil
}

func (r *notebookRepository) Delete(ctx context.Context, p DeleteNotebookParams) error {
	log := logger.FromContext(ctx)

	err := r.DB.InTx(ctx, func(tx *sql.Tx) error {
		nb, err := r.lockNotebook(ctx, tx, p.Filter, p.ID)
		if err != nil {
			return err
		}

		if err := p.Conditions.Check(nb.Updated); err != nil {
			return err
		}

		next, err := r.clock.NextUpdated(ctx, nb.Updated)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, tombstoneNotebook, next, nb.ID); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		if p.DeletedLimit > 0 {
			query, args, buildErr := buildNotebookEvictionQuery(nb.UserID, p.DeletedLimit)
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
			Str("func", "notebookRepository.Delete").
			Int64("notebook_id", p.ID).
			Msg("failed to delete notebook")
		return err
	}

	return nil
}

func (r *notebookRepository) EvictionReached(ctx context.Context, f models.NotebookFilter, since *time.Time, deletedLimit int) (bool, error) {
	if deletedLimit <= 0 {
		return false, nil
	}

	log := logger.FromContext(ctx)

	query, args, err := buildNotebookEvictedGroupQuery(f, since, deletedLimit)
	if err != nil {
		log.Err(err).
			Str("func", "notebookRepository.EvictionReached").
			Msg("failed to create query")
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var ownerID int64
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		log.Err(err).
			Str("func", "notebookRepository.EvictionReached").
			Msg("failed to execute eviction group query")
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return true, nil
}

// EntityType implements [sync.Purger].
func (r *notebookRepository) EntityType() string {
	return models.TypeNotebook
}

// PurgeTombstones implements [sync.Purger]. A notebook tombstone past the
// threshold is skipped while it still owns any notes: removing it would
// cascade-delete live notes and tombstones that have not expired yet. Such a
// notebook is collected by a later sweep, once its notes are gone. The note
// purger must therefore run before this one so expired note tombstones free
// their parents within the same sweep.
func (r *notebookRepository) PurgeTombstones(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, purgeNotebookTombstones, olderThan)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return res.RowsAffected()
}
