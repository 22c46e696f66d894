package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCodeMapping(t *testing.T) {
	cases := []struct {
		err    *AppError
		status int
	}{
		{NotFound("camp", nil), http.StatusNotFound},
		{Validation("bad input", nil), http.StatusBadRequest},
		{Unauthorized("invalid credentials", nil), http.StatusUnauthorized},
		{Forbidden("not verified", nil), http.StatusForbidden},
		{Conflict("already decided", nil), http.StatusConflict},
		{Internal("boom", errors.New("driver failure")), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.StatusCode(), tc.err.Message)
	}
}

func TestNotFoundMessage(t *testing.T) {
	err := NotFound("blood request", nil)
	assert.Equal(t, "blood request not found", err.Message)
}

func TestErrorIncludesWrappedCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("failed to load hospital", cause)

	assert.Equal(t, "failed to load hospital: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestIs(t *testing.T) {
	err := Conflict("already applied", nil)

	assert.True(t, Is(err, ErrConflict))
	assert.False(t, Is(err, ErrNotFound))
	assert.False(t, Is(errors.New("plain"), ErrConflict))

	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, Is(wrapped, ErrConflict))
}

func TestFrom(t *testing.T) {
	appErr := Validation("bad units", nil)
	assert.Same(t, appErr, From(appErr))

	wrapped := fmt.Errorf("outer: %w", appErr)
	assert.Same(t, appErr, From(wrapped))

	unknown := From(errors.New("sql: connection reset"))
	assert.Equal(t, ErrInternal, unknown.Code)
	assert.Equal(t, "internal server error", unknown.Message)
}
