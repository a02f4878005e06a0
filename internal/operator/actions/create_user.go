package actions

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-tracker/internal/storage"
	"github.com/carson-networks/finance-tracker/internal/storage/sqlconfig"
)

type CreateUser struct {
	Name         string
	Email        string
	PasswordHash string
	Role         string

	// CreatedID is set once Perform succeeds.
	CreatedID uuid.UUID
}

func (c *CreateUser) Perform(ctx context.Context, writer *storage.Writer) error {
	_, err := writer.Users.FindByEmail(ctx, c.Email)
	if err == nil {
		return sqlconfig.ErrDuplicateEmail
	}
	if !errors.Is(err, sqlconfig.ErrNotFound) {
		return err
	}

	id, err := writer.Users.Insert(ctx, &sqlconfig.UserCreate{
		Name:         c.Name,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Role:         c.Role,
	})
	if err != nil {
		return err
	}

	c.CreatedID = id
	return nil
}
