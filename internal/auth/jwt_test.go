package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestVerifyValidToken(t *testing.T) {
	v := NewJWTVerifier("secret")
	tokenString := signToken(t, "secret", jwt.MapClaims{
		"sub":   "user-1",
		"email": "ops@omega.example",
		"role":  "admin",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	identity, err := v.Verify(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.ID)
	assert.Equal(t, "ops@omega.example", identity.Email)
	assert.Equal(t, "admin", identity.Role)
}

func TestVerifyWrongSecret(t *testing.T) {
	v := NewJWTVerifier("secret")
	tokenString := signToken(t, "other-secret", jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := v.Verify(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyExpiredToken(t *testing.T) {
	v := NewJWTVerifier("secret")
	tokenString := signToken(t, "secret", jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, err := v.Verify(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMissingSubject(t *testing.T) {
	v := NewJWTVerifier("secret")
	tokenString := signToken(t, "secret", jwt.MapClaims{
		"email": "ops@omega.example",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	_, err := v.Verify(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyGarbage(t *testing.T) {
	v := NewJWTVerifier("secret")
	_, err := v.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
