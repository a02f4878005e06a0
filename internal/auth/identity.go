package auth

import (
	"context"

	"github.com/gofrs/uuid/v5"
)

// SecuritySchemeName is the OpenAPI security scheme used by protected operations.
const SecuritySchemeName = "bearer"

type identityKey struct{}

// Identity is the authenticated caller.
type Identity struct {
	UserID uuid.UUID
	Role   Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(Identity)
	return identity, ok
}

// Security builds the huma security requirement for an operation. With no
// roles any authenticated caller is accepted; otherwise the roles form an
// allow-list.
func Security(roles ...Role) []map[string][]string {
	scopes := make([]string, 0, len(roles))
	for _, role := range roles {
		scopes = append(scopes, role.String())
	}
	return []map[string][]string{{SecuritySchemeName: scopes}}
}
