package server

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitRequestInvalidTypeIsBadRequest(t *testing.T) {
	s := &Server{server: &stubService{}, validator: validator.New()}

	ctx, rec := newJSONContext(t, `{"type":"BOGUS","description":"screen flickers"}`)
	require.NoError(t, s.SubmitRequest(ctx))

	assert.Equal(t, 400, rec.Code)
}

func TestSubmitRequestMissingDescriptionIsBadRequest(t *testing.T) {
	s := &Server{server: &stubService{}, validator: validator.New()}

	ctx, rec := newJSONContext(t, `{"type":"NEW_ASSET"}`)
	require.NoError(t, s.SubmitRequest(ctx))

	assert.Equal(t, 400, rec.Code)
}

func TestChangeUserRoleInvalidRoleIsBadRequest(t *testing.T) {
	s := &Server{server: &stubService{}, validator: validator.New()}

	ctx, rec := newJSONContext(t, `{"role":"ROOT"}`)
	ctx.SetParamNames("id")
	ctx.SetParamValues(uuid.NewString())
	require.NoError(t, s.ChangeUserRole(ctx))

	assert.Equal(t, 400, rec.Code)
}
