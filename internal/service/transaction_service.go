package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-tracker/internal/auth"
	"github.com/carson-networks/finance-tracker/internal/operator/actions"
	"github.com/carson-networks/finance-tracker/internal/storage"
	"github.com/carson-networks/finance-tracker/internal/storage/sqlconfig"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// TransactionService handles transaction business logic. Non-admin callers
// only ever see their own rows; foreign rows look missing.
type TransactionService struct {
	storage  *storage.Storage
	operator processor
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(store *storage.Storage, op processor) *TransactionService {
	return &TransactionService{storage: store, operator: op}
}

// CreateTransaction creates a transaction owned by the caller and returns its ID.
func (s *TransactionService) CreateTransaction(ctx context.Context, identity auth.Identity, input TransactionInput) (uuid.UUID, error) {
	if !identity.Role.CanWrite() {
		return uuid.Nil, ErrForbidden
	}

	action := &actions.CreateTransaction{
		UserID:          identity.UserID,
		Type:            transactionTypeToStorage(input.Type),
		Category:        input.Category,
		Amount:          input.Amount,
		Description:     input.Description,
		TransactionDate: input.TransactionDate,
	}
	if err := s.operator.Process(ctx, action); err != nil {
		return uuid.Nil, err
	}

	return action.CreatedID, nil
}

// GetTransaction retrieves a transaction visible to the caller.
func (s *TransactionService) GetTransaction(ctx context.Context, identity auth.Identity, id uuid.UUID) (*Transaction, error) {
	scope, err := ownerScope(identity)
	if err != nil {
		return nil, err
	}

	row, err := s.storage.Transactions.FindByID(ctx, id, false)
	if err != nil {
		return nil, translateStorageError(err)
	}
	if scope != nil && row.UserID != *scope {
		return nil, ErrNotFound
	}

	tx := transactionFromStorage(row)
	return &tx, nil
}

// ListTransactions returns a page of the caller's transactions using cursor-based pagination.
func (s *TransactionService) ListTransactions(ctx context.Context, identity auth.Identity, cursor *TransactionCursor) ([]Transaction, *TransactionCursor, error) {
	scope, err := ownerScope(identity)
	if err != nil {
		return nil, nil, err
	}

	limit := defaultLimit
	offset := 0
	if cursor != nil {
		if cursor.Limit > 0 {
			limit = min(cursor.Limit, maxLimit)
		}
		offset = max(cursor.Position, 0)
	}

	rows, err := s.storage.Transactions.List(ctx, &sqlconfig.TransactionFilter{
		UserID: scope,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, nil, err
	}

	if len(rows) == 0 {
		return nil, nil, nil
	}

	var nextCursor *TransactionCursor
	if len(rows) > limit {
		rows = rows[:limit]
		nextCursor = &TransactionCursor{
			Position: offset + limit,
			Limit:    limit,
		}
	}

	convertedTransactions := make([]Transaction, len(rows))
	for i, row := range rows {
		convertedTransactions[i] = transactionFromStorage(row)
	}

	return convertedTransactions, nextCursor, nil
}

// UpdateTransaction applies patch and returns the stored result.
func (s *TransactionService) UpdateTransaction(ctx context.Context, identity auth.Identity, id uuid.UUID, patch TransactionPatch) (*Transaction, error) {
	if !identity.Role.CanWrite() {
		return nil, ErrForbidden
	}
	scope, err := ownerScope(identity)
	if err != nil {
		return nil, err
	}

	action := &actions.UpdateTransaction{
		ID:      id,
		OwnerID: scope,
		Update:  patch.toStorage(),
	}
	if err = s.operator.Process(ctx, action); err != nil {
		return nil, translateStorageError(err)
	}

	return s.GetTransaction(ctx, identity, id)
}

// DeleteTransaction removes a transaction visible to the caller.
func (s *TransactionService) DeleteTransaction(ctx context.Context, identity auth.Identity, id uuid.UUID) error {
	if !identity.Role.CanWrite() {
		return ErrForbidden
	}
	scope, err := ownerScope(identity)
	if err != nil {
		return err
	}

	err = s.operator.Process(ctx, &actions.DeleteTransaction{ID: id, OwnerID: scope})
	return translateStorageError(err)
}
