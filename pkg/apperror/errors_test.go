package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"validation", Validation("age must be positive"), http.StatusBadRequest},
		{"unauthorized", Unauthorized("invalid token"), http.StatusUnauthorized},
		{"forbidden", Forbidden("access denied", ReasonRoleDenied), http.StatusForbidden},
		{"not found", NotFound("patient"), http.StatusNotFound},
		{"conflict", Conflict("email already in use"), http.StatusConflict},
		{"internal", Internal(errors.New("boom")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.StatusCode())
		})
	}
}

func TestFrom(t *testing.T) {
	appErr := NotFound("doctor")
	assert.Same(t, appErr, From(appErr))

	wrapped := fmt.Errorf("list doctors: %w", appErr)
	assert.Same(t, appErr, From(wrapped))

	plain := errors.New("connection reset")
	got := From(plain)
	assert.Equal(t, KindInternal, got.Kind)
	assert.Equal(t, plain, got.Err)
	assert.Equal(t, "internal server error", got.Message)
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("create invoice: %w", Conflict("duplicate"))
	assert.True(t, IsKind(err, KindConflict))
	assert.False(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(errors.New("plain"), KindInternal))
}

func TestForbiddenReason(t *testing.T) {
	denied := Forbidden("access denied", ReasonRoleDenied)
	assert.Equal(t, ReasonRoleDenied, denied.Reason)

	notOwner := Forbidden("not your record", ReasonNotOwner)
	assert.Equal(t, ReasonNotOwner, notOwner.Reason)
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := Internal(cause)
	assert.Equal(t, cause, errors.Unwrap(err))
	assert.Contains(t, err.Error(), "connection refused")
}
