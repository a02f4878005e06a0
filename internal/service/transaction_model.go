package service

import (
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-tracker/internal/storage/sqlconfig"
)

// TransactionType is either income or expense.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction represents a transaction in the service layer.
type Transaction struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Type            TransactionType
	Category        string
	Amount          decimal.Decimal
	Description     string
	TransactionDate time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TransactionInput holds the caller-supplied fields of a new transaction.
type TransactionInput struct {
	Type            TransactionType
	Category        string
	Amount          decimal.Decimal
	Description     string
	TransactionDate time.Time
}

// TransactionPatch is a partial update. Unset fields keep their value.
type TransactionPatch struct {
	Type            omit.Val[TransactionType]
	Category        omit.Val[string]
	Amount          omit.Val[decimal.Decimal]
	Description     omit.Val[string]
	TransactionDate omit.Val[time.Time]
}

// TransactionCursor identifies a position in a paginated result set.
type TransactionCursor struct {
	Position int
	Limit    int
}

func transactionTypeToStorage(t TransactionType) sqlconfig.TransactionType {
	return sqlconfig.TransactionType(t)
}

func transactionFromStorage(row *sqlconfig.Transaction) Transaction {
	return Transaction{
		ID:              row.ID,
		UserID:          row.UserID,
		Type:            TransactionType(row.Type),
		Category:        row.Category,
		Amount:          row.Amount,
		Description:     row.Description,
		TransactionDate: row.TransactionDate,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

func (p TransactionPatch) toStorage() sqlconfig.TransactionUpdate {
	var update sqlconfig.TransactionUpdate
	if v, ok := p.Type.Get(); ok {
		update.Type = omit.From(transactionTypeToStorage(v))
	}
	update.Category = p.Category
	update.Amount = p.Amount
	update.Description = p.Description
	update.TransactionDate = p.TransactionDate
	return update
}
