package service

import (
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-tracker/internal/auth"
)

// ownerScope returns the user every read and write of identity is limited
// to, or nil when identity may see all users.
func ownerScope(identity auth.Identity) (*uuid.UUID, error) {
	switch identity.Role {
	case auth.RoleAdmin:
		return nil, nil
	case auth.RoleUser, auth.RoleReadOnly:
		userID := identity.UserID
		return &userID, nil
	default:
		return nil, fmt.Errorf("%w: %s", auth.ErrUnknownRole, identity.Role)
	}
}
