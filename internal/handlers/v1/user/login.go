package user

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-tracker/internal/handlers/v1/apitypes"
	"github.com/carson-networks/finance-tracker/internal/logging"
	"github.com/carson-networks/finance-tracker/internal/service"
)

type LoginBody struct {
	Email    string `json:"email" minLength:"1" doc:"Email address"`
	Password string `json:"password" minLength:"1" doc:"Plain-text password"`
}

type LoginInput struct {
	Body LoginBody
}

type LoginResponseBody struct {
	Token string `json:"token" doc:"Bearer token for the Authorization header"`
	User  User   `json:"user"`
}

type LoginOutput struct {
	Body LoginResponseBody
}

type userAuthenticator interface {
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
}

// LoginHandler handles POST /api/auth/login.
type LoginHandler struct {
	UserService userAuthenticator
}

func NewLoginHandler(svc userAuthenticator) *LoginHandler {
	return &LoginHandler{UserService: svc}
}

func (h *LoginHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/auth/login",
		Summary:     "Log in",
		Description: "Exchanges credentials for a bearer token.",
		Tags:        []string{"Auth"},
	}, h.handle)
}

func (h *LoginHandler) handle(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	logData := logging.GetLogData(ctx)
	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("loginMs")
	}
	result, err := h.UserService.Login(ctx, input.Body.Email, input.Body.Password)
	if stopTimer != nil {
		stopTimer()
	}
	if errors.Is(err, service.ErrInvalidCredentials) {
		return nil, huma.Error401Unauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, apitypes.ServerError(ctx, err)
	}

	return &LoginOutput{Body: LoginResponseBody{
		Token: result.Token,
		User:  userFromService(&result.User),
	}}, nil
}

func userFromService(u *service.User) User {
	return User{
		ID:    u.ID.String(),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role.String(),
	}
}
