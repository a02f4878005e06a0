package user

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-tracker/internal/auth"
	"github.com/carson-networks/finance-tracker/internal/handlers/v1/apitypes"
	"github.com/carson-networks/finance-tracker/internal/logging"
	"github.com/carson-networks/finance-tracker/internal/service"
)

// RegisterBody is the request body for creating a user.
type RegisterBody struct {
	Name     string `json:"name" minLength:"1" maxLength:"255" doc:"Display name"`
	Email    string `json:"email" format:"email" maxLength:"255" doc:"Email address, case-insensitive"`
	Password string `json:"password" minLength:"6" maxLength:"72" doc:"Plain-text password, at most 72 bytes"`
	Role     string `json:"role,omitempty" enum:"admin,user,read-only" doc:"Requested role, defaults to user. admin is rejected"`
}

type RegisterInput struct {
	Body RegisterBody
}

type RegisterResponseBody struct {
	Message string `json:"message"`
	UserID  string `json:"userId" doc:"UUID of the new user"`
}

type RegisterOutput struct {
	Status int
	Body   RegisterResponseBody
}

type userRegisterer interface {
	Register(ctx context.Context, reg service.Registration) (uuid.UUID, error)
}

// RegisterHandler handles POST /api/auth/register.
type RegisterHandler struct {
	UserService userRegisterer
}

func NewRegisterHandler(svc userRegisterer) *RegisterHandler {
	return &RegisterHandler{UserService: svc}
}

func (h *RegisterHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "register-user",
		Method:        http.MethodPost,
		Path:          "/api/auth/register",
		Summary:       "Register user",
		Description:   "Creates a user with the user or read-only role.",
		Tags:          []string{"Auth"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func parseRegisterInput(input *RegisterInput) (service.Registration, error) {
	if len(input.Body.Password) > auth.MaxPasswordBytes {
		return service.Registration{}, huma.Error400BadRequest("Password must not exceed 72 bytes")
	}

	reg := service.Registration{
		Name:     input.Body.Name,
		Email:    input.Body.Email,
		Password: input.Body.Password,
	}
	if input.Body.Role != "" {
		role, err := auth.ParseRole(input.Body.Role)
		if err != nil {
			return service.Registration{}, huma.Error400BadRequest("Invalid role", err)
		}
		reg.Role = role
	}
	return reg, nil
}

func (h *RegisterHandler) handle(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
	reg, err := parseRegisterInput(input)
	if err != nil {
		return nil, err
	}

	logData := logging.GetLogData(ctx)
	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("registerUserMs")
	}
	id, err := h.UserService.Register(ctx, reg)
	if stopTimer != nil {
		stopTimer()
	}

	switch {
	case errors.Is(err, service.ErrUserExists):
		return nil, huma.Error400BadRequest("User already exists")
	case errors.Is(err, auth.ErrPasswordTooLong):
		return nil, huma.Error400BadRequest("Password must not exceed 72 bytes")
	case errors.Is(err, service.ErrAdminRegistration):
		return nil, huma.Error400BadRequest("Admin accounts cannot be self-registered")
	case err != nil:
		return nil, apitypes.ServerError(ctx, err)
	}

	if logData != nil {
		logData.AddData("userID", id.String())
	}

	return &RegisterOutput{
		Status: http.StatusCreated,
		Body: RegisterResponseBody{
			Message: "User registered successfully",
			UserID:  id.String(),
		},
	}, nil
}
