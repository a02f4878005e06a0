package actions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/finance-tracker/internal/storage"
	"github.com/carson-networks/finance-tracker/internal/storage/sqlconfig"
)

type noopCommitter struct{}

func (noopCommitter) Commit(context.Context) error   { return nil }
func (noopCommitter) Rollback(context.Context) error { return nil }

func newTestWriter(t *testing.T) (*storage.Writer, *sqlconfig.MockIUserTable, *sqlconfig.MockITransactionTable) {
	t.Helper()
	users := sqlconfig.NewMockIUserTable(t)
	transactions := sqlconfig.NewMockITransactionTable(t)
	return storage.NewWriter(noopCommitter{}, users, transactions), users, transactions
}

// -- CreateUser --

func TestCreateUser_Success(t *testing.T) {
	writer, users, _ := newTestWriter(t)
	expectedID := uuid.Must(uuid.NewV4())

	users.EXPECT().FindByEmail(mock.Anything, "a@example.com").Return(nil, sqlconfig.ErrNotFound)
	users.EXPECT().Insert(mock.Anything, &sqlconfig.UserCreate{
		Name:         "A",
		Email:        "a@example.com",
		PasswordHash: "hash",
		Role:         "user",
	}).Return(expectedID, nil)

	action := &CreateUser{Name: "A", Email: "a@example.com", PasswordHash: "hash", Role: "user"}
	assert.NoError(t, action.Perform(context.Background(), writer))
	assert.Equal(t, expectedID, action.CreatedID)
}

func TestCreateUser_EmailTaken(t *testing.T) {
	writer, users, _ := newTestWriter(t)

	users.EXPECT().FindByEmail(mock.Anything, "a@example.com").Return(&sqlconfig.User{}, nil)

	action := &CreateUser{Email: "a@example.com"}
	assert.ErrorIs(t, action.Perform(context.Background(), writer), sqlconfig.ErrDuplicateEmail)
	assert.Equal(t, uuid.Nil, action.CreatedID)
}

func TestCreateUser_LookupError(t *testing.T) {
	writer, users, _ := newTestWriter(t)

	users.EXPECT().FindByEmail(mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	action := &CreateUser{Email: "a@example.com"}
	assert.EqualError(t, action.Perform(context.Background(), writer), "connection reset")
}

// -- CreateTransaction --

func TestCreateTransaction_Success(t *testing.T) {
	writer, _, transactions := newTestWriter(t)
	userID := uuid.Must(uuid.NewV4())
	expectedID := uuid.Must(uuid.NewV4())
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	transactions.EXPECT().Insert(mock.Anything, mock.MatchedBy(func(c *sqlconfig.TransactionCreate) bool {
		return c.UserID == userID &&
			c.Type == sqlconfig.TransactionTypeExpense &&
			c.Category == "Food" &&
			c.Amount.Equal(decimal.RequireFromString("9.99")) &&
			c.Description == "lunch" &&
			c.TransactionDate.Equal(date)
	})).Return(expectedID, nil)

	action := &CreateTransaction{
		UserID:          userID,
		Type:            sqlconfig.TransactionTypeExpense,
		Category:        "Food",
		Amount:          decimal.RequireFromString("9.99"),
		Description:     "lunch",
		TransactionDate: date,
	}
	assert.NoError(t, action.Perform(context.Background(), writer))
	assert.Equal(t, expectedID, action.CreatedID)
}

func TestCreateTransaction_InsertError(t *testing.T) {
	writer, _, transactions := newTestWriter(t)

	transactions.EXPECT().Insert(mock.Anything, mock.Anything).Return(uuid.Nil, errors.New("insert failed"))

	action := &CreateTransaction{}
	assert.EqualError(t, action.Perform(context.Background(), writer), "insert failed")
}

// -- UpdateTransaction / DeleteTransaction --

func TestUpdateTransaction_Owner(t *testing.T) {
	writer, _, transactions := newTestWriter(t)
	id := uuid.Must(uuid.NewV4())
	owner := uuid.Must(uuid.NewV4())
	update := sqlconfig.TransactionUpdate{Category: omit.From("Rent")}

	transactions.EXPECT().FindByID(mock.Anything, id, true).Return(&sqlconfig.Transaction{ID: id, UserID: owner}, nil)
	transactions.EXPECT().Update(mock.Anything, id, &update).Return(nil)

	action := &UpdateTransaction{ID: id, OwnerID: &owner, Update: update}
	assert.NoError(t, action.Perform(context.Background(), writer))
}

func TestUpdateTransaction_ForeignRowIsNotFound(t *testing.T) {
	writer, _, transactions := newTestWriter(t)
	id := uuid.Must(uuid.NewV4())
	caller := uuid.Must(uuid.NewV4())

	transactions.EXPECT().FindByID(mock.Anything, id, true).
		Return(&sqlconfig.Transaction{ID: id, UserID: uuid.Must(uuid.NewV4())}, nil)

	action := &UpdateTransaction{ID: id, OwnerID: &caller, Update: sqlconfig.TransactionUpdate{Category: omit.From("x")}}
	assert.ErrorIs(t, action.Perform(context.Background(), writer), sqlconfig.ErrNotFound)
	transactions.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateTransaction_AdminEmptyUpdate(t *testing.T) {
	writer, _, transactions := newTestWriter(t)
	id := uuid.Must(uuid.NewV4())

	transactions.EXPECT().FindByID(mock.Anything, id, true).
		Return(&sqlconfig.Transaction{ID: id, UserID: uuid.Must(uuid.NewV4())}, nil)

	action := &UpdateTransaction{ID: id}
	assert.NoError(t, action.Perform(context.Background(), writer))
}

func TestDeleteTransaction_Success(t *testing.T) {
	writer, _, transactions := newTestWriter(t)
	id := uuid.Must(uuid.NewV4())
	owner := uuid.Must(uuid.NewV4())

	transactions.EXPECT().FindByID(mock.Anything, id, true).Return(&sqlconfig.Transaction{ID: id, UserID: owner}, nil)
	transactions.EXPECT().Delete(mock.Anything, id).Return(nil)

	action := &DeleteTransaction{ID: id, OwnerID: &owner}
	assert.NoError(t, action.Perform(context.Background(), writer))
}

func TestDeleteTransaction_Missing(t *testing.T) {
	writer, _, transactions := newTestWriter(t)
	id := uuid.Must(uuid.NewV4())

	transactions.EXPECT().FindByID(mock.Anything, id, true).Return(nil, sqlconfig.ErrNotFound)

	action := &DeleteTransaction{ID: id}
	assert.ErrorIs(t, action.Perform(context.Background(), writer), sqlconfig.ErrNotFound)
}
