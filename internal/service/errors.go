package service

import (
	"errors"

	"github.com/carson-networks/finance-tracker/internal/storage/sqlconfig"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrAdminRegistration  = errors.New("admin accounts cannot be self-registered")
	ErrDuplicateCategory  = errors.New("duplicate category in breakdown")
	ErrInvalidPeriod      = errors.New("invalid period")
)

func translateStorageError(err error) error {
	if errors.Is(err, sqlconfig.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
