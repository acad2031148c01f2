package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/offlinesync/notekeeper/internal/logger"
	"github.com/offlinesync/notekeeper/internal/sync"
	"github.com/offlinesync/notekeeper/models"
)

// userRepository is the PostgreSQL-backed implementation of
// [UserRepository]. Users are read-only from the protocol's point of view:
// they are created out-of-band and never synchronized.
type userRepository struct {
	*DB
	logger *logger.Logger
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	return &userRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *userRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	log := logger.FromContext(ctx)

	rows, err := r.DB.QueryContext(ctx, listUsers)
	if err != nil {
		log.Err(err).
			Str("func", "userRepository.ListUsers").
			Msg("failed to execute query for listing users")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	users := make([]models.User, 0, 16)

	for rows.Next() {
		var user models.User

		if scanErr := rows.Scan(&user.ID, &user.Username, &user.Created); scanErr != nil {
			log.Err(scanErr).
				Str("func", "userRepository.ListUsers").
				Msg("failed to scan user row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		users = append(users, user)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "userRepository.ListUsers").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return users, nil
}

func (r *userRepository) GetUser(ctx context.Context, username string) (models.User, error) {
	log := logger.FromContext(ctx)

	var user models.User

	err := r.DB.QueryRowContext(ctx, getUserByUsername, username).
		Scan(&user.ID, &user.Username, &user.Created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("%w: user %s", sync.ErrNotFound, username)
		}

		log.Err(err).
			Str("func", "userRepository.GetUser").
			Str("username", username).
			Msg("failed to execute query for getting user")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return user, nil
}
