package user

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-tracker/internal/auth"
	"github.com/carson-networks/finance-tracker/internal/handlers/v1/apitypes"
	"github.com/carson-networks/finance-tracker/internal/service"
)

type MessageOutput struct {
	Body MessageBody
}

type userGetter interface {
	GetUser(ctx context.Context, id uuid.UUID) (*service.User, error)
}

// ProtectedHandler serves the two token-check routes.
type ProtectedHandler struct {
	UserService userGetter
}

func NewProtectedHandler(svc userGetter) *ProtectedHandler {
	return &ProtectedHandler{UserService: svc}
}

func (h *ProtectedHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "auth-protected",
		Method:      http.MethodGet,
		Path:        "/api/auth/protected",
		Summary:     "Greet the caller",
		Tags:        []string{"Auth"},
		Security:    auth.Security(),
	}, h.handleProtected)

	huma.Register(api, huma.Operation{
		OperationID: "auth-admin-only",
		Method:      http.MethodGet,
		Path:        "/api/auth/admin-only",
		Summary:     "Admin check",
		Tags:        []string{"Auth"},
		Security:    auth.Security(auth.RoleAdmin),
	}, h.handleAdminOnly)
}

func (h *ProtectedHandler) handleProtected(ctx context.Context, _ *struct{}) (*MessageOutput, error) {
	identity, err := apitypes.Identity(ctx)
	if err != nil {
		return nil, err
	}

	u, err := h.UserService.GetUser(ctx, identity.UserID)
	if errors.Is(err, service.ErrNotFound) {
		// The token outlived its user.
		return nil, huma.Error401Unauthorized(apitypes.MessageNotAuthorized)
	}
	if err != nil {
		return nil, apitypes.ServerError(ctx, err)
	}

	return &MessageOutput{Body: MessageBody{Message: "Hello, " + u.Name + "!"}}, nil
}

func (h *ProtectedHandler) handleAdminOnly(ctx context.Context, _ *struct{}) (*MessageOutput, error) {
	identity, err := apitypes.Identity(ctx)
	if err != nil {
		return nil, err
	}
	if !identity.IsAdmin() {
		return nil, huma.Error403Forbidden(apitypes.MessageForbidden)
	}

	return &MessageOutput{Body: MessageBody{Message: "Welcome Admin!"}}, nil
}
