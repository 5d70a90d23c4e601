package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, err := svc.Generate(42, "doc@clinic.test", "Dr. Rao", "doctor")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)

	id, err := claims.AccountID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "doc@clinic.test", claims.Email)
	assert.Equal(t, "Dr. Rao", claims.Name)
	assert.Equal(t, "doctor", claims.Role)
}

func TestValidateExpired(t *testing.T) {
	svc := NewJWTService("test-secret", -time.Minute)

	token, err := svc.Generate(1, "a@b.test", "A", "patient")
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateWrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-one", time.Hour)
	verifier := NewJWTService("secret-two", time.Hour)

	token, err := issuer.Generate(1, "a@b.test", "A", "patient")
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateGarbage(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	_, err := svc.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
