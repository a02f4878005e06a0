package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/finance-tracker/internal/storage/sqlconfig"
)

type mockCommitter struct {
	mock.Mock
}

func (m *mockCommitter) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockCommitter) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestWriter_DelegatesToTransaction(t *testing.T) {
	tx := new(mockCommitter)
	tx.On("Commit", mock.Anything).Return(nil).Once()
	tx.On("Rollback", mock.Anything).Return(errors.New("already committed")).Once()

	users := sqlconfig.NewMockIUserTable(t)
	transactions := sqlconfig.NewMockITransactionTable(t)
	writer := NewWriter(tx, users, transactions)

	assert.Same(t, users, writer.Users)
	assert.Same(t, transactions, writer.Transactions)
	assert.NoError(t, writer.Commit(context.Background()))
	assert.EqualError(t, writer.Rollback(context.Background()), "already committed")
	tx.AssertExpectations(t)
}
