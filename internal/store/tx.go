package store

import (
	"context"

	"github.com/jackc/pgx/v5"
)

type TransactionFunc func(transaction pgx.Tx) error

// WithTransaction runs fn in a transaction, committing only when fn
// returns nil.
func (s *Store) WithTransaction(
	ctx context.Context,
	fn TransactionFunc,
) error {
	transaction, err := s.connectionPool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel: pgx.ReadCommitted,
	})
	if err != nil {
		return err
	}

	defer func() { _ = transaction.Rollback(ctx) }()

	if err := fn(transaction); err != nil {
		return err
	}

	return transaction.Commit(ctx)
}
