package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/offlinesync/notekeeper/internal/sync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func TestInTx_CommitsOnSuccess(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	calls := 0
	err := db.InTx(context.Background(), func(_ *sql.Tx) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInTx_RollsBackOnError(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	errBoom := errors.New("boom")
	err := db.InTx(context.Background(), func(_ *sql.Tx) error {
		return errBoom
	})

	require.ErrorIs(t, err, errBoom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInTx_RetriesTransientFailures(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectCommit()

	calls := 0
	err := db.InTx(context.Background(), func(_ *sql.Tx) error {
		calls++
		if calls == 1 {
			return pgError(pgerrcode.DeadlockDetected)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInTx_DoesNotRetryProtocolErrors(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	calls := 0
	err := db.InTx(context.Background(), func(_ *sql.Tx) error {
		calls++
		return sync.ErrConflict
	})

	require.ErrorIs(t, err, sync.ErrConflict)
	assert.Equal(t, 1, calls, "protocol errors are the client's to retry")
	require.NoError(t, mock.ExpectationsWereMet())
}
