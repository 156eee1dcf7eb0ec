package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const txTimeout = 10 * time.Second

// Commit runs txFunc in a read-committed transaction and commits when it
// returns nil. Any error rolls the transaction back and is returned as is,
// so callers can still match it with errors.Is / errors.As.
func Commit(ctx context.Context, pgp *pgxpool.Pool, txFunc func(context.Context, pgx.Tx) error) error {
	txCtx, txCtxCancel := context.WithTimeout(ctx, txTimeout)
	defer txCtxCancel()

	tx, err := pgp.BeginTx(txCtx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("postgresql: begin: %w", err)
	}

	if err = txFunc(txCtx, tx); err != nil {
		if errRollback := tx.Rollback(txCtx); errRollback != nil && !errors.Is(errRollback, pgx.ErrTxClosed) {
			return fmt.Errorf("%w: postgresql: rollback: %v", err, errRollback)
		}
		return err
	}

	if err = tx.Commit(txCtx); err != nil {
		return fmt.Errorf("postgresql: commit: %w", err)
	}
	return nil
}
