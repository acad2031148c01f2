package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	txMaxRetries   = 3
	txRetryBackoff = 25 * time.Millisecond
)

// InTx runs fn inside a single database transaction. The transaction is
// committed when fn returns nil and rolled back otherwise, so a failed
// request leaves no partial state.
//
// Transient driver failures (deadlock rollback, serialization failure,
// connection loss) are retried a bounded number of times with a fresh
// transaction. Protocol errors — validation, not-found, conflict,
// limit-exceeded — classify as non-retryable and surface to the caller
// unchanged; retrying those is the client's decision, not ours.
func (db *DB) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	backoff := retry.WithMaxRetries(txMaxRetries, retry.NewConstant(txRetryBackoff))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := db.runTx(ctx, fn)
		if err != nil && db.errorClassifier.Classify(err) == Retryable {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (db *DB) runTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
	}

	return nil
}
