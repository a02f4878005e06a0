package sqlconfig

import (
	"context"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction represents a transaction record.
type Transaction struct {
	ID              uuid.UUID       `db:"id"`
	UserID          uuid.UUID       `db:"user_id"`
	Type            TransactionType `db:"type"`
	Category        string          `db:"category"`
	Amount          decimal.Decimal `db:"amount"`
	Description     string          `db:"description"`
	TransactionDate time.Time       `db:"transaction_date"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

// TransactionCreate is the input for creating a new transaction.
type TransactionCreate struct {
	UserID          uuid.UUID
	Type            TransactionType
	Category        string
	Amount          decimal.Decimal
	Description     string
	TransactionDate time.Time
}

// TransactionUpdate carries the columns to change. Unset fields are left alone.
type TransactionUpdate struct {
	Type            omit.Val[TransactionType]
	Category        omit.Val[string]
	Amount          omit.Val[decimal.Decimal]
	Description     omit.Val[string]
	TransactionDate omit.Val[time.Time]
}

// IsEmpty reports whether no column would change.
func (u *TransactionUpdate) IsEmpty() bool {
	return u.Type.IsUnset() && u.Category.IsUnset() && u.Amount.IsUnset() &&
		u.Description.IsUnset() && u.TransactionDate.IsUnset()
}

// TransactionFilter specifies filters for listing transactions.
type TransactionFilter struct {
	UserID *uuid.UUID
	Limit  int
	Offset int
}

// AggregateFilter scopes the aggregate reads. A nil UserID covers every
// user, an empty Type covers both types and To is exclusive.
type AggregateFilter struct {
	UserID *uuid.UUID
	Type   TransactionType
	From   *time.Time
	To     *time.Time
}

// CategoryTotal is one row of a per-category aggregation.
type CategoryTotal struct {
	Type     TransactionType `db:"type"`
	Category string          `db:"category"`
	Total    decimal.Decimal `db:"total"`
}

// MonthlyTotal is the sum of one transaction type within a calendar month.
type MonthlyTotal struct {
	Month int             `db:"month"`
	Type  TransactionType `db:"type"`
	Total decimal.Decimal `db:"total"`
}

// DailyTotal is the sum of one transaction type on one calendar day.
type DailyTotal struct {
	Day   time.Time       `db:"day"`
	Type  TransactionType `db:"type"`
	Total decimal.Decimal `db:"total"`
}

// ITransactionTable defines the interface for transaction storage operations.
// This abstraction allows swapping the implementation (e.g. Bob) without changing callers.
//
//go:generate mockery --name ITransactionTable --output mock_ITransactionTable.go
type ITransactionTable interface {
	FindByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*Transaction, error)
	Insert(ctx context.Context, create *TransactionCreate) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, update *TransactionUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error)
	SumAmount(ctx context.Context, filter *AggregateFilter) (decimal.Decimal, error)
	SumByCategory(ctx context.Context, filter *AggregateFilter) ([]*CategoryTotal, error)
	MonthlyTotals(ctx context.Context, filter *AggregateFilter) ([]*MonthlyTotal, error)
	DailyTotals(ctx context.Context, filter *AggregateFilter) ([]*DailyTotal, error)
}
