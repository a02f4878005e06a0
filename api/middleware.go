package api

import (
	"net/http"
	"slices"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-tracker/internal/auth"
	"github.com/carson-networks/finance-tracker/internal/handlers/v1/apitypes"
	"github.com/carson-networks/finance-tracker/internal/logging"
)

type tokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// securityScopes returns the role allow-list of the operation and whether
// the operation requires authentication at all.
func securityScopes(op *huma.Operation) ([]string, bool) {
	if op == nil {
		return nil, false
	}
	for _, requirement := range op.Security {
		if scopes, ok := requirement[auth.SecuritySchemeName]; ok {
			return scopes, true
		}
	}
	return nil, false
}

// Authenticate verifies the bearer token of operations that declare the
// bearer security scheme and stores the caller's Identity in the context.
func Authenticate(api huma.API, verifier tokenVerifier) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if _, secured := securityScopes(ctx.Operation()); !secured {
			next(ctx)
			return
		}

		token, ok := bearerToken(ctx.Header("Authorization"))
		if !ok {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, apitypes.MessageNotAuthorized)
			return
		}
		identity, err := verifier.Verify(token)
		if err != nil {
			if logData := logging.GetLogData(ctx.Context()); logData != nil {
				logData.AddData("authError", err.Error())
			}
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, apitypes.MessageNotAuthorized)
			return
		}

		if logData := logging.GetLogData(ctx.Context()); logData != nil {
			logData.AddData("userID", identity.UserID.String())
			logData.AddData("role", identity.Role.String())
		}
		next(huma.WithContext(ctx, auth.WithIdentity(ctx.Context(), identity)))
	}
}

// RequireRoles answers 403 when the operation lists roles in its security
// scopes and the caller has none of them. It must run after Authenticate.
func RequireRoles(api huma.API) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		scopes, secured := securityScopes(ctx.Operation())
		if !secured || len(scopes) == 0 {
			next(ctx)
			return
		}

		identity, ok := auth.IdentityFromContext(ctx.Context())
		if !ok {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, apitypes.MessageNotAuthorized)
			return
		}
		if !slices.Contains(scopes, identity.Role.String()) {
			_ = huma.WriteErr(api, ctx, http.StatusForbidden, apitypes.MessageForbidden)
			return
		}
		next(ctx)
	}
}
