// Package driver provides database driver implementations for the peneira
// data-access layer. This file defines the postgresTransaction type, which
// adapts pgx.Tx to the core.Transaction interface.
package driver

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// postgresTransaction wraps a pgx.Tx and implements the core.Transaction interface.
//
// It allows the data-access layer to manage transactions in a driver-agnostic way.
type postgresTransaction struct {
	transaction pgx.Tx
}

// Commit finalizes the transaction, making all changes permanent.
func (transaction *postgresTransaction) Commit(ctx context.Context) error {
	return transaction.transaction.Commit(ctx)
}

// Rollback reverts the transaction, discarding all changes.
func (transaction *postgresTransaction) Rollback(ctx context.Context) error {
	return transaction.transaction.Rollback(ctx)
}
