package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatusFromError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("writing 7: %w", ErrNotFound), http.StatusNotFound},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrBadRequest, http.StatusBadRequest},
		{fmt.Errorf("like: %w", ErrAlreadyExists), http.StatusBadRequest},
		{&ValidationError{Fields: []FieldError{{Field: "title", Rule: "required"}}}, http.StatusBadRequest},
		{ErrConflict, http.StatusConflict},
		{&pgconn.PgError{Code: "23505"}, http.StatusConflict},
		{ErrServiceUnavailable, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatusFromError(tc.err), "%v", tc.err)
	}
}

type signup struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	err := Validate(signup{Username: "ab", Email: "nope"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Fields, 2)
	assert.Equal(t, FieldError{Field: "username", Rule: "min", Param: "3"}, ve.Fields[0])
	assert.Equal(t, "email", ve.Fields[1].Field)

	assert.NoError(t, Validate(signup{Username: "alice", Email: "a@b.co"}))
}

func TestRespondWithErr(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x", nil)

	w := httptest.NewRecorder()
	RespondWithErr(w, r, errors.New("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())

	w = httptest.NewRecorder()
	RespondWithErr(w, r, &ValidationError{Fields: []FieldError{{Field: "title", Rule: "required"}}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []FieldError{{Field: "title", Rule: "required"}}, body.Details)
}
