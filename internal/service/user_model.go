package service

import (
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-tracker/internal/auth"
)

// User represents a user in the service layer. The password hash never
// leaves the storage layer.
type User struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Role      auth.Role
	CreatedAt time.Time
}

// Registration is the input for creating a user. A zero Role means RoleUser.
type Registration struct {
	Name     string
	Email    string
	Password string
	Role     auth.Role
}

// LoginResult is a signed bearer token and the user it was issued to.
type LoginResult struct {
	Token string
	User  User
}
