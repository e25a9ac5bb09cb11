package errors

import (
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesCode(t *testing.T) {
	err := NotFoundf("option %q not found", "Logo")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.Equal(t, `option "Logo" not found`, err.Message)
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(io.ErrUnexpectedEOF, CodeInternal, "read failed")

	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, "read failed: unexpected EOF", err.Error())
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus())

	var target *Error
	assert.True(t, errors.As(error(err), &target))
	assert.Equal(t, "read failed", target.Message)
}

func TestHTTPStatus(t *testing.T) {
	tests := map[Code]int{
		CodeNotFound:     http.StatusNotFound,
		CodeValidation:   http.StatusBadRequest,
		CodeUnauthorized: http.StatusUnauthorized,
		CodeForbidden:    http.StatusForbidden,
		CodeRateLimited:  http.StatusTooManyRequests,
		CodeInternal:     http.StatusInternalServerError,
		Code("BOGUS"):    http.StatusInternalServerError,
	}
	for code, want := range tests {
		assert.Equal(t, want, code.HTTPStatus(), code)
	}
}

func TestWithCauseCopies(t *testing.T) {
	wrapped := ErrNotFound.WithCause(io.EOF)

	assert.NoError(t, ErrNotFound.Unwrap())
	assert.ErrorIs(t, wrapped, io.EOF)
	assert.Equal(t, map[string]string{"k": "v"}, ValidationWithDetails("bad", map[string]string{"k": "v"}).Details)
}
