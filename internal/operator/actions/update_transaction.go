package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-tracker/internal/storage"
	"github.com/carson-networks/finance-tracker/internal/storage/sqlconfig"
)

// UpdateTransaction applies a partial update. When OwnerID is set the row
// must belong to that user, otherwise it is reported as not found.
type UpdateTransaction struct {
	ID      uuid.UUID
	OwnerID *uuid.UUID
	Update  sqlconfig.TransactionUpdate
}

func (u *UpdateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	if err := lockOwned(ctx, writer, u.ID, u.OwnerID); err != nil {
		return err
	}
	if u.Update.IsEmpty() {
		return nil
	}

	return writer.Transactions.Update(ctx, u.ID, &u.Update)
}

// lockOwned locks the row for the rest of the transaction and checks ownership.
func lockOwned(ctx context.Context, writer *storage.Writer, id uuid.UUID, ownerID *uuid.UUID) error {
	row, err := writer.Transactions.FindByID(ctx, id, true)
	if err != nil {
		return err
	}
	if ownerID != nil && row.UserID != *ownerID {
		return sqlconfig.ErrNotFound
	}
	return nil
}
