package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-tracker/internal/auth"
	"github.com/carson-networks/finance-tracker/internal/operator/actions"
	"github.com/carson-networks/finance-tracker/internal/storage"
	"github.com/carson-networks/finance-tracker/internal/storage/sqlconfig"
)

// UserService handles registration, login and user lookups.
type UserService struct {
	storage  *storage.Storage
	operator processor
	tokens   tokenIssuer
}

func NewUserService(store *storage.Storage, op processor, tokens tokenIssuer) *UserService {
	return &UserService{storage: store, operator: op, tokens: tokens}
}

// Register creates a user with the user or read-only role.
func (s *UserService) Register(ctx context.Context, reg Registration) (uuid.UUID, error) {
	role := reg.Role
	if role == 0 {
		role = auth.RoleUser
	}
	switch role {
	case auth.RoleUser, auth.RoleReadOnly:
	case auth.RoleAdmin:
		return uuid.Nil, ErrAdminRegistration
	default:
		return uuid.Nil, fmt.Errorf("%w: %s", auth.ErrUnknownRole, role)
	}

	return s.createUser(ctx, reg.Name, reg.Email, reg.Password, role)
}

// CreateAdmin creates an admin user. It is not reachable over HTTP.
func (s *UserService) CreateAdmin(ctx context.Context, name, email, password string) (uuid.UUID, error) {
	return s.createUser(ctx, name, email, password, auth.RoleAdmin)
}

func (s *UserService) createUser(ctx context.Context, name, email, password string, role auth.Role) (uuid.UUID, error) {
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return uuid.Nil, fmt.Errorf("hash password: %w", err)
	}

	action := &actions.CreateUser{
		Name:         strings.TrimSpace(name),
		Email:        normalizeEmail(email),
		PasswordHash: hashed,
		Role:         role.String(),
	}
	if err = s.operator.Process(ctx, action); err != nil {
		if errors.Is(err, sqlconfig.ErrDuplicateEmail) {
			return uuid.Nil, ErrUserExists
		}
		return uuid.Nil, err
	}

	return action.CreatedID, nil
}

// Login checks the credentials and issues a bearer token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	row, err := s.storage.Users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, sqlconfig.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err = auth.ComparePassword(row.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := userFromStorage(row)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(auth.Identity{UserID: user.ID, Role: user.Role})
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, User: *user}, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	row, err := s.storage.Users.FindByID(ctx, id)
	if err != nil {
		return nil, translateStorageError(err)
	}
	return userFromStorage(row)
}

func userFromStorage(row *sqlconfig.User) (*User, error) {
	role, err := auth.ParseRole(row.Role)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", row.ID, err)
	}
	return &User{
		ID:        row.ID,
		Name:      row.Name,
		Email:     row.Email,
		Role:      role,
		CreatedAt: row.CreatedAt,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
