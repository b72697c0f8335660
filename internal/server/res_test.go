package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/assetdesk/assetdesk/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestErrJSONMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"unauthenticated", usecase.ErrUnauthenticated{Message: "no token"}, 401},
		{"forbidden", usecase.ErrForbidden{}, 403},
		{"not found", usecase.ErrNotFound{Message: "Asset not found"}, 404},
		{"validation", usecase.ErrValidation{Message: "bad input"}, 400},
		{"conflict", usecase.ErrConflict{Message: "already assigned"}, 409},
		{"wrapped", fmt.Errorf("outer: %w", usecase.ErrNotFound{Message: "gone"}), 404},
		{"unknown", errors.New("db exploded"), 500},
	}

	s := &Server{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, rec := newTestContext(t)
			require.NoError(t, s.errJSON(ctx, tt.err))
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestErrJSONHidesInternalDetail(t *testing.T) {
	s := &Server{}
	ctx, rec := newTestContext(t)
	require.NoError(t, s.errJSON(ctx, errors.New("pq: password authentication failed")))
	assert.Equal(t, 500, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.Contains(t, rec.Body.String(), "internal server error")
}

func TestErrJSONConflict400(t *testing.T) {
	s := &Server{}

	ctx, rec := newTestContext(t)
	require.NoError(t, s.errJSONConflict400(ctx, usecase.ErrConflict{Message: "Asset is not currently assigned"}))
	assert.Equal(t, 400, rec.Code)

	// Everything else still follows the standard mapping.
	ctx, rec = newTestContext(t)
	require.NoError(t, s.errJSONConflict400(ctx, usecase.ErrForbidden{}))
	assert.Equal(t, 403, rec.Code)
}
