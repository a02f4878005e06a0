package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/finance-tracker/internal/config"
	"github.com/carson-networks/finance-tracker/internal/storage/sqlconfig"
)

type Storage struct {
	DB           *sql.DB
	bobDB        bob.DB
	Users        sqlconfig.IUserTable
	Transactions sqlconfig.ITransactionTable
}

func NewStorage(env *config.Config) (*Storage, error) {
	db, err := sql.Open("postgres", env.PostgresURL())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	return newStorage(db), nil
}

func newStorage(db *sql.DB) *Storage {
	bobDB := bob.NewDB(db)
	return &Storage{
		DB:           db,
		bobDB:        bobDB,
		Users:        sqlconfig.NewUsersTable(bobDB),
		Transactions: sqlconfig.NewTransactionsTable(bobDB),
	}
}

// Ping verifies the database is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// Write opens a database transaction and returns a Writer whose tables are
// bound to it. The caller must Commit or Rollback.
func (s *Storage) Write(ctx context.Context) (*Writer, error) {
	tx, err := s.bobDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}

	return NewWriter(tx, sqlconfig.NewUsersTable(tx), sqlconfig.NewTransactionsTable(tx)), nil
}

func (s *Storage) Close() error {
	return s.DB.Close()
}
