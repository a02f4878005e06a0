package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-tracker/internal/storage"
	"github.com/carson-networks/finance-tracker/internal/storage/sqlconfig"
)

type CreateTransaction struct {
	UserID          uuid.UUID
	Type            sqlconfig.TransactionType
	Category        string
	Amount          decimal.Decimal
	Description     string
	TransactionDate time.Time

	CreatedID uuid.UUID
}

func (t *CreateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	id, err := writer.Transactions.Insert(ctx, &sqlconfig.TransactionCreate{
		UserID:          t.UserID,
		Type:            t.Type,
		Category:        t.Category,
		Amount:          t.Amount,
		Description:     t.Description,
		TransactionDate: t.TransactionDate,
	})
	if err != nil {
		return err
	}

	t.CreatedID = id
	return nil
}
