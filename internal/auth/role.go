package auth

import (
	"errors"
	"fmt"
)

var ErrUnknownRole = errors.New("unknown role")

// Role is the access level attached to a user.
type Role int8

const (
	RoleUser Role = iota + 1
	RoleReadOnly
	RoleAdmin
)

var roleNames = map[Role]string{
	RoleAdmin:    "admin",
	RoleUser:     "user",
	RoleReadOnly: "read-only",
}

// ParseRole converts the stored/wire name of a role.
func ParseRole(name string) (Role, error) {
	for role, roleName := range roleNames {
		if roleName == name {
			return role, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRole, name)
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", int8(r))
}

func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// CanWrite reports whether the role may create, update or delete transactions.
func (r Role) CanWrite() bool {
	switch r {
	case RoleAdmin, RoleUser:
		return true
	case RoleReadOnly:
		return false
	default:
		return false
	}
}
