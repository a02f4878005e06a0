package storage

import (
	"context"

	"github.com/carson-networks/finance-tracker/internal/storage/sqlconfig"
)

// Committer ends a database transaction.
type Committer interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type Writer struct {
	tx           Committer
	Users        sqlconfig.IUserTable
	Transactions sqlconfig.ITransactionTable
}

func NewWriter(tx Committer, users sqlconfig.IUserTable, transactions sqlconfig.ITransactionTable) *Writer {
	return &Writer{
		tx:           tx,
		Users:        users,
		Transactions: transactions,
	}
}

func (w *Writer) Commit(ctx context.Context) error {
	return w.tx.Commit(ctx)
}

func (w *Writer) Rollback(ctx context.Context) error {
	return w.tx.Rollback(ctx)
}
