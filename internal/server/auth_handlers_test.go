package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/assetdesk/assetdesk/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubService satisfies Service for handler tests. Only the methods a
// test exercises are overridden; a call to anything else panics.
type stubService struct {
	Service

	registered usecase.RegisterUser
}

func (s *stubService) RegisterUser(_ context.Context, ru usecase.RegisterUser) (usecase.User, error) {
	s.registered = ru
	return usecase.User{ID: uuid.New(), Name: ru.Name, Email: ru.Email, Role: usecase.RoleUser}, nil
}

func newJSONContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRegisterUserUnknownRolePassesThrough(t *testing.T) {
	svc := &stubService{}
	s := &Server{server: svc, validator: validator.New()}

	ctx, rec := newJSONContext(t,
		`{"name":"Alice","email":"alice@example.com","password":"password1","role":"WIZARD"}`)
	require.NoError(t, s.RegisterUser(ctx))

	// An unrecognized role is not a request error; the domain layer
	// falls back to USER.
	assert.Equal(t, 201, rec.Code)
	assert.Equal(t, "WIZARD", svc.registered.Role)
}

func TestRegisterUserValidation(t *testing.T) {
	s := &Server{server: &stubService{}, validator: validator.New()}

	ctx, rec := newJSONContext(t,
		`{"name":"Alice","email":"not-an-email","password":"password1"}`)
	require.NoError(t, s.RegisterUser(ctx))

	assert.Equal(t, 400, rec.Code)
}
