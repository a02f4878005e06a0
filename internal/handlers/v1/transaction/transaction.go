package transaction

import (
	"context"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-tracker/internal/handlers/v1/apitypes"
	"github.com/carson-networks/finance-tracker/internal/service"
)

// DateLayout is the wire format of transaction dates.
const DateLayout = "2006-01-02"

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID              string          `json:"id" doc:"Transaction UUID"`
	UserID          string          `json:"userId" doc:"Owner UUID"`
	Type            string          `json:"type" enum:"income,expense" doc:"Transaction type"`
	Category        string          `json:"category" doc:"Free-form category"`
	Amount          apitypes.Amount `json:"amount" doc:"Non-negative decimal amount"`
	Description     string          `json:"description" doc:"Description, may be empty"`
	TransactionDate string          `json:"date" format:"date" doc:"Calendar date of the transaction"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func transactionFromService(tx *service.Transaction) Transaction {
	return Transaction{
		ID:              tx.ID.String(),
		UserID:          tx.UserID.String(),
		Type:            string(tx.Type),
		Category:        tx.Category,
		Amount:          apitypes.NewAmount(tx.Amount),
		Description:     tx.Description,
		TransactionDate: tx.TransactionDate.Format(DateLayout),
		CreatedAt:       tx.CreatedAt,
		UpdatedAt:       tx.UpdatedAt,
	}
}

// translateError maps service errors to API errors.
func translateError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrForbidden):
		return huma.Error403Forbidden(apitypes.MessageForbidden)
	case errors.Is(err, service.ErrNotFound):
		return huma.Error404NotFound("Transaction not found")
	default:
		return apitypes.ServerError(ctx, err)
	}
}

func parseDate(value string) (time.Time, error) {
	date, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, huma.Error400BadRequest("invalid date", err)
	}
	return date, nil
}

// maxAmount is the first value that no longer fits NUMERIC(14,2).
var maxAmount = decimal.New(1, 12)

func checkAmount(amount apitypes.Amount) error {
	value := amount.Decimal()
	switch {
	case value.IsNegative():
		return huma.Error400BadRequest("amount must not be negative")
	case !value.Equal(value.Truncate(2)):
		return huma.Error400BadRequest("amount must have at most 2 decimal places")
	case value.GreaterThanOrEqual(maxAmount):
		return huma.Error400BadRequest("amount must be less than 1000000000000")
	}
	return nil
}
