package apitypes

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-tracker/internal/auth"
	"github.com/carson-networks/finance-tracker/internal/logging"
)

const (
	MessageServerError   = "Server error"
	MessageNotAuthorized = "Not authorized"
	MessageForbidden     = "Forbidden"
)

// ServerError records err on the request log and hides it from the client.
func ServerError(ctx context.Context, err error) error {
	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddError(err)
	}
	return huma.Error500InternalServerError(MessageServerError)
}

// Identity returns the authenticated caller, or a 401 when the request
// reached the handler without one.
func Identity(ctx context.Context) (auth.Identity, error) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return auth.Identity{}, huma.Error401Unauthorized(MessageNotAuthorized)
	}
	return identity, nil
}
