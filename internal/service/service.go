package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-tracker/internal/auth"
	"github.com/carson-networks/finance-tracker/internal/cache"
	"github.com/carson-networks/finance-tracker/internal/operator/actions"
	"github.com/carson-networks/finance-tracker/internal/storage"
)

// processor runs write actions inside a database transaction.
type processor interface {
	Process(ctx context.Context, action actions.IAction) error
}

type tokenIssuer interface {
	Issue(identity auth.Identity) (string, error)
}

// Service holds all business logic services.
type Service struct {
	User        *UserService
	Transaction *TransactionService
	Analytics   *AnalyticsService
}

// NewService creates a new Service. Reads go to store directly, writes are
// handed to op.
func NewService(store *storage.Storage, op processor, c cache.Cache, tokens tokenIssuer, logger *logrus.Logger) *Service {
	return &Service{
		User:        NewUserService(store, op, tokens),
		Transaction: NewTransactionService(store, op),
		Analytics:   NewAnalyticsService(store, c, logger),
	}
}
