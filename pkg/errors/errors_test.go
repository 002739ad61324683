package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	e := InvalidInput("quantity must be positive")
	assert.Equal(t, "INVALID_INPUT: quantity must be positive", e.Error())

	wrapped := Upstream("catalog", errors.New("connection refused"))
	assert.Contains(t, wrapped.Error(), "UPSTREAM_FAILURE")
	assert.Contains(t, wrapped.Error(), "catalog")
}

func TestAppError_Unwrap(t *testing.T) {
	e := CreditLimitExceeded("order exceeds available credit")
	assert.ErrorIs(t, e, ErrCreditExceeded)

	e = NotFound("cart line", "42")
	assert.ErrorIs(t, e, ErrNotFound)
}

func TestHTTPStatus_AppError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{NotFound("cart", "op-1"), http.StatusNotFound},
		{InvalidInput("bad"), http.StatusBadRequest},
		{Unauthorized("no token"), http.StatusUnauthorized},
		{Forbidden("missing permission"), http.StatusForbidden},
		{Conflict("cart changed"), http.StatusConflict},
		{CreditLimitExceeded("over limit"), http.StatusUnprocessableEntity},
		{Upstream("orders", errors.New("boom")), http.StatusBadGateway},
		{Unavailable("breaker open"), http.StatusServiceUnavailable},
		{Internal(errors.New("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, HTTPStatus(tt.err), tt.err.Error())
	}
}

func TestHTTPStatus_WrappedSentinel(t *testing.T) {
	err := fmt.Errorf("load cart: %w", ErrNotFound)
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))

	err = fmt.Errorf("submit: %w", ErrCreditExceeded)
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(err))
}

func TestHTTPStatus_UnknownError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("mystery")))
}
