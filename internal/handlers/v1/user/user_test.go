package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-tracker/internal/auth"
	"github.com/carson-networks/finance-tracker/internal/service"
)

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) Register(ctx context.Context, reg service.Registration) (uuid.UUID, error) {
	args := m.Called(ctx, reg)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockUserService) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	args := m.Called(ctx, email, password)
	result, _ := args.Get(0).(*service.LoginResult)
	return result, args.Error(1)
}

func (m *mockUserService) GetUser(ctx context.Context, id uuid.UUID) (*service.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*service.User)
	return u, args.Error(1)
}

func newTestAPI(t *testing.T, svc *mockUserService, identity *auth.Identity) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	if identity != nil {
		api.UseMiddleware(func(ctx huma.Context, next func(huma.Context)) {
			next(huma.WithContext(ctx, auth.WithIdentity(ctx.Context(), *identity)))
		})
	}
	NewRegisterHandler(svc).Register(api)
	NewLoginHandler(svc).Register(api)
	NewProtectedHandler(svc).Register(api)
	return api
}

func decodeMessage(t *testing.T, body []byte) string {
	t.Helper()
	var decoded struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(body, &decoded))
	if decoded.Message != "" {
		return decoded.Message
	}
	return decoded.Detail
}

func TestParseRegisterInput_DefaultRole(t *testing.T) {
	reg, err := parseRegisterInput(&RegisterInput{Body: RegisterBody{
		Name: "Ann", Email: "ann@example.com", Password: "secret1",
	}})
	require.NoError(t, err)
	assert.Equal(t, auth.Role(0), reg.Role)
	assert.Equal(t, "ann@example.com", reg.Email)
}

func TestParseRegisterInput_ReadOnly(t *testing.T) {
	reg, err := parseRegisterInput(&RegisterInput{Body: RegisterBody{
		Name: "Ann", Email: "ann@example.com", Password: "secret1", Role: "read-only",
	}})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleReadOnly, reg.Role)
}

func TestHTTP_Register_Success(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	svc := new(mockUserService)
	svc.On("Register", mock.Anything, service.Registration{
		Name: "Ann", Email: "ann@example.com", Password: "secret1",
	}).Return(id, nil)

	resp := newTestAPI(t, svc, nil).Post("/api/auth/register", RegisterBody{
		Name: "Ann", Email: "ann@example.com", Password: "secret1",
	})

	assert.Equal(t, http.StatusCreated, resp.Code)
	var body RegisterResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "User registered successfully", body.Message)
	assert.Equal(t, id.String(), body.UserID)
	svc.AssertExpectations(t)
}

func TestHTTP_Register_UserExists(t *testing.T) {
	svc := new(mockUserService)
	svc.On("Register", mock.Anything, mock.Anything).Return(uuid.Nil, service.ErrUserExists)

	resp := newTestAPI(t, svc, nil).Post("/api/auth/register", RegisterBody{
		Name: "Ann", Email: "ann@example.com", Password: "secret1",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "User already exists", decodeMessage(t, resp.Body.Bytes()))
}

func TestHTTP_Register_AdminRejected(t *testing.T) {
	svc := new(mockUserService)
	svc.On("Register", mock.Anything, mock.MatchedBy(func(reg service.Registration) bool {
		return reg.Role == auth.RoleAdmin
	})).Return(uuid.Nil, service.ErrAdminRegistration)

	resp := newTestAPI(t, svc, nil).Post("/api/auth/register", RegisterBody{
		Name: "Ann", Email: "ann@example.com", Password: "secret1", Role: "admin",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	svc.AssertExpectations(t)
}

func TestHTTP_Register_ShortPassword(t *testing.T) {
	svc := new(mockUserService)

	resp := newTestAPI(t, svc, nil).Post("/api/auth/register", RegisterBody{
		Name: "Ann", Email: "ann@example.com", Password: "123",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	svc.AssertNotCalled(t, "Register")
}

func TestHTTP_Register_MultibytePasswordTooLong(t *testing.T) {
	svc := new(mockUserService)

	// 72 runes pass the schema, 144 bytes do not fit bcrypt.
	resp := newTestAPI(t, svc, nil).Post("/api/auth/register", RegisterBody{
		Name: "Ann", Email: "ann@example.com", Password: strings.Repeat("é", 72),
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Password must not exceed 72 bytes", decodeMessage(t, resp.Body.Bytes()))
	svc.AssertNotCalled(t, "Register")
}

func TestHTTP_Register_HashRejectsPassword(t *testing.T) {
	svc := new(mockUserService)
	svc.On("Register", mock.Anything, mock.Anything).
		Return(uuid.Nil, fmt.Errorf("hash password: %w", auth.ErrPasswordTooLong))

	resp := newTestAPI(t, svc, nil).Post("/api/auth/register", RegisterBody{
		Name: "Ann", Email: "ann@example.com", Password: "secret1",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHTTP_Register_ServiceError(t *testing.T) {
	svc := new(mockUserService)
	svc.On("Register", mock.Anything, mock.Anything).Return(uuid.Nil, errors.New("pq: connection refused"))

	resp := newTestAPI(t, svc, nil).Post("/api/auth/register", RegisterBody{
		Name: "Ann", Email: "ann@example.com", Password: "secret1",
	})

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.NotContains(t, resp.Body.String(), "connection refused")
}

func TestHTTP_Login_Success(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	svc := new(mockUserService)
	svc.On("Login", mock.Anything, "ann@example.com", "secret1").Return(&service.LoginResult{
		Token: "signed-token",
		User:  service.User{ID: id, Name: "Ann", Email: "ann@example.com", Role: auth.RoleUser},
	}, nil)

	resp := newTestAPI(t, svc, nil).Post("/api/auth/login", LoginBody{
		Email: "ann@example.com", Password: "secret1",
	})

	assert.Equal(t, http.StatusOK, resp.Code)
	var body LoginResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "signed-token", body.Token)
	assert.Equal(t, User{ID: id.String(), Name: "Ann", Email: "ann@example.com", Role: "user"}, body.User)
}

func TestHTTP_Login_InvalidCredentials(t *testing.T) {
	svc := new(mockUserService)
	svc.On("Login", mock.Anything, mock.Anything, mock.Anything).Return(nil, service.ErrInvalidCredentials)

	resp := newTestAPI(t, svc, nil).Post("/api/auth/login", LoginBody{
		Email: "ann@example.com", Password: "wrong",
	})

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "Invalid credentials", decodeMessage(t, resp.Body.Bytes()))
}

func TestHTTP_Protected_Greets(t *testing.T) {
	identity := auth.Identity{UserID: uuid.Must(uuid.NewV4()), Role: auth.RoleUser}
	svc := new(mockUserService)
	svc.On("GetUser", mock.Anything, identity.UserID).Return(&service.User{ID: identity.UserID, Name: "Ann"}, nil)

	resp := newTestAPI(t, svc, &identity).Get("/api/auth/protected")

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Hello, Ann!", decodeMessage(t, resp.Body.Bytes()))
}

func TestHTTP_Protected_NoIdentity(t *testing.T) {
	svc := new(mockUserService)

	resp := newTestAPI(t, svc, nil).Get("/api/auth/protected")

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	svc.AssertNotCalled(t, "GetUser")
}

func TestHTTP_Protected_UserGone(t *testing.T) {
	identity := auth.Identity{UserID: uuid.Must(uuid.NewV4()), Role: auth.RoleUser}
	svc := new(mockUserService)
	svc.On("GetUser", mock.Anything, identity.UserID).Return(nil, service.ErrNotFound)

	resp := newTestAPI(t, svc, &identity).Get("/api/auth/protected")

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestHTTP_AdminOnly(t *testing.T) {
	admin := auth.Identity{UserID: uuid.Must(uuid.NewV4()), Role: auth.RoleAdmin}
	resp := newTestAPI(t, new(mockUserService), &admin).Get("/api/auth/admin-only")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Welcome Admin!", decodeMessage(t, resp.Body.Bytes()))

	user := auth.Identity{UserID: uuid.Must(uuid.NewV4()), Role: auth.RoleUser}
	resp = newTestAPI(t, new(mockUserService), &user).Get("/api/auth/admin-only")
	assert.Equal(t, http.StatusForbidden, resp.Code)
}
