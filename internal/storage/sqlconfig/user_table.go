package sqlconfig

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"
)

const usersTableName = "users"

var userColumns = []any{
	"id", "name", "email", "password_hash", "role", "created_at", "updated_at",
}

var _ IUserTable = (*UsersTable)(nil)

// UsersTable provides access to the users table.
type UsersTable struct {
	exec bob.Executor
}

func NewUsersTable(exec bob.Executor) *UsersTable {
	return &UsersTable{exec: exec}
}

// FindByEmail looks a user up by the normalized email address.
func (t *UsersTable) FindByEmail(ctx context.Context, email string) (*User, error) {
	return t.findOne(ctx, psql.Quote("email").EQ(psql.Arg(email)))
}

func (t *UsersTable) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return t.findOne(ctx, psql.Quote("id").EQ(psql.Arg(id)))
}

// Insert creates a user and returns its ID. A taken email yields ErrDuplicateEmail.
func (t *UsersTable) Insert(ctx context.Context, create *UserCreate) (uuid.UUID, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, err
	}

	q := psql.Insert(
		im.Into(usersTableName, "id", "name", "email", "password_hash", "role"),
		im.Values(psql.Arg(id, create.Name, create.Email, create.PasswordHash, create.Role)),
	)
	if _, err = q.Exec(ctx, t.exec); err != nil {
		return uuid.Nil, translateError(err)
	}
	return id, nil
}

func (t *UsersTable) findOne(ctx context.Context, where bob.Expression) (*User, error) {
	q := psql.Select(
		sm.Columns(userColumns...),
		sm.From(usersTableName),
		sm.Where(where),
	)
	row, err := bob.One(ctx, t.exec, q, scan.StructMapper[User]())
	if err != nil {
		return nil, translateError(err)
	}
	return &row, nil
}
