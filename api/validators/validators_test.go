package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/simkemas/simkemas-backend/pkg/errors"
)

type loginBody struct {
	Username string `json:"username" validate:"required,min=4"`
	Password string `json:"password" validate:"required"`
}

func TestDecodeJSONBodyReportsJSONFieldNames(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"ab","password":""}`))
	var body loginBody
	err := DecodeJSONBody(r, &body)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "must be at least 4", details["username"])
	assert.Equal(t, "is required", details["password"])
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"kasir","password":"x","role":"admin"}`))
	var body loginBody
	err := DecodeJSONBody(r, &body)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestParseUUIDParam(t *testing.T) {
	id := uuid.New()
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id.String())
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

	got, err := ParseUUIDParam(r, "id")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ParseUUIDParam(r, "missing")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestParseQueryBool(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?deleted=true&archived=maybe", nil)

	deleted, err := ParseQueryBool(r, "deleted")
	require.NoError(t, err)
	assert.True(t, deleted)

	missing, err := ParseQueryBool(r, "trash")
	require.NoError(t, err)
	assert.False(t, missing)

	_, err = ParseQueryBool(r, "archived")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
