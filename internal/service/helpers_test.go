package service

import (
	"context"
	"testing"

	"github.com/carson-networks/finance-tracker/internal/operator/actions"
	"github.com/carson-networks/finance-tracker/internal/storage"
	"github.com/carson-networks/finance-tracker/internal/storage/sqlconfig"
)

type committerSpy struct {
	commits   int
	rollbacks int
}

func (c *committerSpy) Commit(context.Context) error {
	c.commits++
	return nil
}

func (c *committerSpy) Rollback(context.Context) error {
	c.rollbacks++
	return nil
}

// inlineProcessor runs actions synchronously against the mocked tables,
// standing in for the operator's worker pool.
type inlineProcessor struct {
	tx           *committerSpy
	users        sqlconfig.IUserTable
	transactions sqlconfig.ITransactionTable
	processed    []actions.IAction
}

func (p *inlineProcessor) Process(ctx context.Context, action actions.IAction) error {
	p.processed = append(p.processed, action)
	writer := storage.NewWriter(p.tx, p.users, p.transactions)
	if err := action.Perform(ctx, writer); err != nil {
		_ = writer.Rollback(ctx)
		return err
	}
	return writer.Commit(ctx)
}

type testStore struct {
	users        *sqlconfig.MockIUserTable
	transactions *sqlconfig.MockITransactionTable
	storage      *storage.Storage
	processor    *inlineProcessor
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()
	users := sqlconfig.NewMockIUserTable(t)
	transactions := sqlconfig.NewMockITransactionTable(t)
	return &testStore{
		users:        users,
		transactions: transactions,
		storage:      &storage.Storage{Users: users, Transactions: transactions},
		processor: &inlineProcessor{
			tx:           &committerSpy{},
			users:        users,
			transactions: transactions,
		},
	}
}
